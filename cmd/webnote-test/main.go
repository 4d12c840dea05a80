package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"webnote/pkg/noteid"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultServerURL     = "http://127.0.0.1:8080"
	defaultHTTPTimeout   = 2 * time.Minute
	defaultRetryMax      = 3
	defaultRetryWaitMin  = 200 * time.Millisecond
	defaultRetryWaitMax  = 2 * time.Second
	defaultParallelReads = 10
	defaultUploadSize    = 1024

	separatorLineLength = 80

	formContentType  = "application/x-www-form-urlencoded"
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) webnote-test"
	cliUserAgent     = "curl/8.7.1"
)

type config struct {
	serverURL     string
	httpTimeout   time.Duration
	retryMax      int
	parallelReads int
	uploadSize    int

	// Test selection flags
	runAll          bool
	runRedirect     bool
	runRoundTrip    bool
	runNegotiation  bool
	runEscaping     bool
	runEmptyDelete  bool
	runParallelRead bool
	runUpload       bool
	runStatus       bool

	// Metrics configuration
	showSummary bool
}

type tester struct {
	cfg     config
	client  *noteClient
	metrics *metricsCollector
}

// Step metrics for a complete test step.
type stepMetrics struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Success   bool
	Error     error
}

// Metrics collector for tracking steps and request totals.
type metricsCollector struct {
	mu             sync.Mutex
	steps          []stepMetrics
	currentStep    *stepMetrics
	showSummary    bool
	totalRequests  int
	failedRequests int
	totalBytes     int64
}

type uploadResponse struct {
	URL     string `json:"url"`
	IsImage bool   `json:"is_image"`
	Name    string `json:"name"`
}

type statusResponse struct {
	Version       string `json:"version"`
	Notes         int    `json:"notes"`
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Storage       struct {
		Total     uint64 `json:"total"`
		Used      uint64 `json:"used"`
		Available uint64 `json:"available"`
	} `json:"storage"`
}

// probeResponse carries everything a step asserts on. Status checking is
// the step's job, the client only fails on transport errors.
type probeResponse struct {
	status int
	header http.Header
	body   []byte
}

// noteClient provides a retrying HTTP client for note service probes.
type noteClient struct {
	baseURL string
	client  *retryablehttp.Client
	metrics *metricsCollector
}

// newNoteClient creates a retryable HTTP client for probe requests.
func newNoteClient(baseURL string, timeout time.Duration, retryMax int, metrics *metricsCollector) *noteClient {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = defaultRetryWaitMin
	client.RetryWaitMax = defaultRetryWaitMax
	client.Logger = nil // Disable retryablehttp logging
	// Custom retry policy: only retry on connection/timeout errors, not HTTP errors
	// Probes assert on statuses, including the redirect and error responses
	client.CheckRetry = probeRetryPolicy
	client.HTTPClient.Timeout = timeout
	// Redirects stay visible so the fresh-note probe can inspect Location
	client.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &noteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		metrics: metrics,
	}
}

// probeRetryPolicy only retries on connection/timeout errors, not HTTP status
// errors, so every response the service produced reaches the asserting step.
func probeRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	// Do not retry if context is cancelled
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	// If we got a response, don't retry - the step inspects it as-is
	if resp != nil {
		return false, nil
	}

	// Only retry if there's a connection/timeout error (no response received)
	// We intentionally return nil error here because retryablehttp will handle
	// the retry or final error reporting. The error is preserved internally.
	if err != nil {
		return true, nil //nolint:nilerr // intentionally returning nil - retryablehttp handles the error
	}

	return false, nil
}

// do performs an HTTP request and returns the raw response pieces.
func (c *noteClient) do(ctx context.Context, method, path string, body []byte, contentType, userAgent string) (*probeResponse, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, rawBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.recordRequest(0, err)
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.recordRequest(0, err)
		return nil, fmt.Errorf("read response for %s %s: %w", method, path, err)
	}

	c.metrics.recordRequest(int64(len(respBody)), nil)
	return &probeResponse{
		status: resp.StatusCode,
		header: resp.Header,
		body:   respBody,
	}, nil
}

func main() {
	cfg := parseFlags()
	tester := newTester(cfg)

	ctx := context.Background()
	if err := tester.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "webnote-test failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ All selected test scenarios completed successfully")

	// Print metrics summary
	tester.metrics.printSummary()
}

func parseFlags() config {
	flags := parseCommandLineFlags()
	cfg := createConfigFromFlags(flags)
	validateAndNormalizeConfig(&cfg)
	return cfg
}

type parsedFlags struct {
	server        *string
	timeout       *time.Duration
	retryMax      *int
	parallelReads *int
	uploadSize    *int
	runAll        *bool
	step1         *bool
	step2         *bool
	step3         *bool
	step4         *bool
	step5         *bool
	step6         *bool
	step7         *bool
	step8         *bool
	noSummary     *bool
}

func parseCommandLineFlags() parsedFlags {
	// Server configuration
	server := flag.String("server", defaultServerURL, "Note server base URL")
	timeout := flag.Duration("http-timeout", defaultHTTPTimeout, "HTTP client timeout")
	retryMax := flag.Int("retry-max", defaultRetryMax, "Retries per request on connection errors")

	// Test counts
	parallelReads := flag.Int("parallel-reads", defaultParallelReads, "Number of parallel raw reads to issue (for step 6)")
	uploadSize := flag.Int("upload-size", defaultUploadSize, "Upload probe size in bytes (for step 7)")

	// Test selection flags
	runAll := flag.Bool("all", false, "Run all test steps (overrides individual step selections)")
	step1 := flag.Bool("step1", false, "Run Step 1: Fresh note redirect")
	step2 := flag.Bool("step2", false, "Run Step 2: Save and read back")
	step3 := flag.Bool("step3", false, "Run Step 3: Raw and rendered negotiation")
	step4 := flag.Bool("step4", false, "Run Step 4: HTML escaping")
	step5 := flag.Bool("step5", false, "Run Step 5: Empty save deletes the note")
	step6 := flag.Bool("step6", false, "Run Step 6: Parallel raw reads")
	step7 := flag.Bool("step7", false, "Run Step 7: Upload round trip")
	step8 := flag.Bool("step8", false, "Run Step 8: Status endpoint")

	// Metrics flags
	noSummary := flag.Bool("no-summary", false, "Disable metrics summary (summary is enabled by default)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nTest Steps:\n")
		fmt.Fprintf(os.Stderr, "  Step 1: Fresh note redirect from /\n")
		fmt.Fprintf(os.Stderr, "  Step 2: Save a note and read it back raw\n")
		fmt.Fprintf(os.Stderr, "  Step 3: Raw vs rendered content negotiation\n")
		fmt.Fprintf(os.Stderr, "  Step 4: HTML escaping in the rendered page\n")
		fmt.Fprintf(os.Stderr, "  Step 5: Empty save deletes the note\n")
		fmt.Fprintf(os.Stderr, "  Step 6: Parallel raw reads of the same note\n")
		fmt.Fprintf(os.Stderr, "  Step 7: Upload round trip through /_tmp\n")
		fmt.Fprintf(os.Stderr, "  Step 8: Status endpoint sanity\n")
		fmt.Fprintf(os.Stderr, "\nBy default, all steps run. Use individual -step flags to run specific tests.\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	return parsedFlags{
		server:        server,
		timeout:       timeout,
		retryMax:      retryMax,
		parallelReads: parallelReads,
		uploadSize:    uploadSize,
		runAll:        runAll,
		step1:         step1,
		step2:         step2,
		step3:         step3,
		step4:         step4,
		step5:         step5,
		step6:         step6,
		step7:         step7,
		step8:         step8,
		noSummary:     noSummary,
	}
}

func createConfigFromFlags(flags parsedFlags) config {
	// Check if any specific step was selected
	anyStepSelected := isAnyStepSelected(flags)

	cfg := createBaseConfig(flags, anyStepSelected)
	applyRunAllFlagOverride(&cfg, flags)

	return cfg
}

func isAnyStepSelected(flags parsedFlags) bool {
	return *flags.step1 || *flags.step2 || *flags.step3 || *flags.step4 ||
		*flags.step5 || *flags.step6 || *flags.step7 || *flags.step8
}

func createBaseConfig(flags parsedFlags, anyStepSelected bool) config {
	return config{
		serverURL:     strings.TrimRight(*flags.server, "/"),
		httpTimeout:   *flags.timeout,
		retryMax:      *flags.retryMax,
		parallelReads: *flags.parallelReads,
		uploadSize:    *flags.uploadSize,

		// If no specific step is selected, run all
		runAll:          !anyStepSelected,
		runRedirect:     *flags.step1 || !anyStepSelected,
		runRoundTrip:    *flags.step2 || !anyStepSelected,
		runNegotiation:  *flags.step3 || !anyStepSelected,
		runEscaping:     *flags.step4 || !anyStepSelected,
		runEmptyDelete:  *flags.step5 || !anyStepSelected,
		runParallelRead: *flags.step6 || !anyStepSelected,
		runUpload:       *flags.step7 || !anyStepSelected,
		runStatus:       *flags.step8 || !anyStepSelected,

		// Metrics configuration - summary enabled by default
		showSummary: !*flags.noSummary,
	}
}

func applyRunAllFlagOverride(cfg *config, flags parsedFlags) {
	// Override with -all flag if explicitly set
	if *flags.runAll {
		cfg.runAll = true
		cfg.runRedirect = true
		cfg.runRoundTrip = true
		cfg.runNegotiation = true
		cfg.runEscaping = true
		cfg.runEmptyDelete = true
		cfg.runParallelRead = true
		cfg.runUpload = true
		cfg.runStatus = true
	}
}

func validateAndNormalizeConfig(cfg *config) {
	if cfg.serverURL == "" {
		cfg.serverURL = defaultServerURL
	}
	if cfg.uploadSize <= 0 {
		fmt.Fprintf(os.Stderr, "invalid upload size: %d\n", cfg.uploadSize)
		os.Exit(1)
	}
	if cfg.retryMax < 0 {
		cfg.retryMax = defaultRetryMax
	}
	if cfg.parallelReads <= 0 {
		cfg.parallelReads = defaultParallelReads
	}
}

func newTester(cfg config) *tester {
	metrics := &metricsCollector{
		showSummary: cfg.showSummary,
		steps:       make([]stepMetrics, 0),
	}
	client := newNoteClient(cfg.serverURL, cfg.httpTimeout, cfg.retryMax, metrics)
	return &tester{cfg: cfg, client: client, metrics: metrics}
}

// Metrics methods.
func (m *metricsCollector) startStep(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentStep = &stepMetrics{
		Name:      name,
		StartTime: time.Now(),
	}
}

func (m *metricsCollector) endStep(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentStep != nil {
		m.currentStep.EndTime = time.Now()
		m.currentStep.Duration = m.currentStep.EndTime.Sub(m.currentStep.StartTime)
		m.currentStep.Success = err == nil
		m.currentStep.Error = err
		m.steps = append(m.steps, *m.currentStep)
		m.currentStep = nil
	}
}

func (m *metricsCollector) recordRequest(size int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalRequests++
	if err != nil {
		m.failedRequests++
		return
	}
	if size > 0 {
		m.totalBytes += size
	}
}

func (m *metricsCollector) printSummary() {
	if !m.showSummary {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Println("\n" + strings.Repeat("=", separatorLineLength))
	fmt.Println("METRICS SUMMARY")
	fmt.Println(strings.Repeat("=", separatorLineLength))

	// Overall statistics
	fmt.Printf("\nOverall Statistics:\n")
	fmt.Printf("  Total requests:  %d\n", m.totalRequests)
	fmt.Printf("  Failed requests: %d\n", m.failedRequests)
	fmt.Printf("  Bytes received:  %s\n", formatBytes(m.totalBytes))

	// Step-by-step breakdown
	fmt.Printf("\nStep-by-Step Breakdown:\n")
	for _, step := range m.steps {
		status := "✓"
		if !step.Success {
			status = "✗"
		}
		fmt.Printf("  %s %s (%.2fs)\n", status, step.Name, step.Duration.Seconds())
		if step.Error != nil {
			fmt.Printf("    Error: %v\n", step.Error)
		}
	}

	// Timing statistics
	var totalDuration time.Duration
	for _, step := range m.steps {
		totalDuration += step.Duration
	}

	fmt.Printf("\nTiming Summary:\n")
	fmt.Printf("  Total execution time: %.2fs\n", totalDuration.Seconds())

	fmt.Println(strings.Repeat("=", separatorLineLength))
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func (t *tester) run(ctx context.Context) error {
	steps := t.getTestSteps()
	stepsRun := 0

	for _, step := range steps {
		if step.shouldRun {
			if err := step.runFunc(ctx); err != nil {
				return err
			}
			stepsRun++
		}
	}

	if stepsRun == 0 {
		fmt.Println("No test steps were selected. Use -h for help.")
		return errors.New("no tests selected")
	}

	return nil
}

type testStep struct {
	shouldRun bool
	runFunc   func(context.Context) error
}

func (t *tester) getTestSteps() []testStep {
	return []testStep{
		{t.cfg.runRedirect, t.runRedirectStep},
		{t.cfg.runRoundTrip, t.runRoundTripStep},
		{t.cfg.runNegotiation, t.runNegotiationStep},
		{t.cfg.runEscaping, t.runEscapingStep},
		{t.cfg.runEmptyDelete, t.runEmptyDeleteStep},
		{t.cfg.runParallelRead, t.runParallelReadStep},
		{t.cfg.runUpload, t.runUploadStep},
		{t.cfg.runStatus, t.runStatusStep},
	}
}

func (t *tester) runRedirectStep(ctx context.Context) error {
	fmt.Println("Step 1: Checking fresh note redirect")
	t.metrics.startStep("Step 1: Fresh note redirect")
	err := t.checkRedirect(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("fresh note redirect failed: %w", err)
	}
	fmt.Println("✓ Step 1 completed successfully")
	return nil
}

func (t *tester) checkRedirect(ctx context.Context) error {
	resp, err := t.client.do(ctx, http.MethodGet, "/", nil, "", browserUserAgent)
	if err != nil {
		return err
	}
	if resp.status != http.StatusSeeOther {
		return fmt.Errorf("expected %d from /, got %d", http.StatusSeeOther, resp.status)
	}

	location := resp.header.Get("Location")
	slug := strings.TrimPrefix(location, "/")
	if slug == location || len(slug) != noteid.DefaultLength || !noteid.Validate(slug) {
		return fmt.Errorf("unexpected redirect target %q", location)
	}
	return nil
}

func (t *tester) runRoundTripStep(ctx context.Context) error {
	fmt.Println("\nStep 2: Running save and read back")
	t.metrics.startStep("Step 2: Save and read back")
	err := t.checkRoundTrip(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("save and read back failed: %w", err)
	}
	fmt.Println("✓ Step 2 completed successfully")
	return nil
}

func (t *tester) checkRoundTrip(ctx context.Context) error {
	note := noteid.New(noteid.DefaultLength)
	body, err := testNoteBody()
	if err != nil {
		return err
	}
	if err := t.saveNote(ctx, note, body); err != nil {
		return err
	}
	defer t.cleanupNotes(ctx, note)

	resp, err := t.readRaw(ctx, note)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("raw read of %s returned %d", note, resp.status)
	}
	if string(resp.body) != body {
		return fmt.Errorf("raw read of %s returned different content", note)
	}
	return nil
}

func (t *tester) runNegotiationStep(ctx context.Context) error {
	fmt.Println("\nStep 3: Running raw and rendered negotiation")
	t.metrics.startStep("Step 3: Raw and rendered negotiation")
	err := t.checkNegotiation(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("negotiation check failed: %w", err)
	}
	fmt.Println("✓ Step 3 completed successfully")
	return nil
}

func (t *tester) checkNegotiation(ctx context.Context) error {
	note := noteid.New(noteid.DefaultLength)
	body := "negotiation probe & <tag>\n"
	if err := t.saveNote(ctx, note, body); err != nil {
		return err
	}
	defer t.cleanupNotes(ctx, note)

	// A CLI user agent gets the raw bytes without asking
	cliResp, err := t.client.do(ctx, http.MethodGet, "/"+note, nil, "", cliUserAgent)
	if err != nil {
		return err
	}
	if cliResp.status != http.StatusOK || string(cliResp.body) != body {
		return fmt.Errorf("cli read of %s did not return the raw body", note)
	}

	// A browser gets the editor page with the content escaped into it
	browserResp, err := t.client.do(ctx, http.MethodGet, "/"+note, nil, "", browserUserAgent)
	if err != nil {
		return err
	}
	if browserResp.status != http.StatusOK {
		return fmt.Errorf("browser read of %s returned %d", note, browserResp.status)
	}
	page := string(browserResp.body)
	if !strings.Contains(page, "<textarea") || !strings.Contains(page, "negotiation probe &amp; &lt;tag&gt;") {
		return fmt.Errorf("browser read of %s did not render the editor page", note)
	}
	return nil
}

func (t *tester) runEscapingStep(ctx context.Context) error {
	fmt.Println("\nStep 4: Running HTML escaping check")
	t.metrics.startStep("Step 4: HTML escaping")
	err := t.checkEscaping(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("escaping check failed: %w", err)
	}
	fmt.Println("✓ Step 4 completed successfully")
	return nil
}

func (t *tester) checkEscaping(ctx context.Context) error {
	note := noteid.New(noteid.DefaultLength)
	body := `<script>alert("probe")</script>`
	if err := t.saveNote(ctx, note, body); err != nil {
		return err
	}
	defer t.cleanupNotes(ctx, note)

	resp, err := t.client.do(ctx, http.MethodGet, "/"+note, nil, "", browserUserAgent)
	if err != nil {
		return err
	}
	page := string(resp.body)
	if strings.Contains(page, `<script>alert`) {
		return fmt.Errorf("note %s leaked markup into the page", note)
	}
	if !strings.Contains(page, "&lt;script&gt;alert(&quot;probe&quot;)&lt;/script&gt;") {
		return fmt.Errorf("note %s content missing from the page", note)
	}
	return nil
}

func (t *tester) runEmptyDeleteStep(ctx context.Context) error {
	fmt.Println("\nStep 5: Running empty save deletes")
	t.metrics.startStep("Step 5: Empty save deletes")
	err := t.checkEmptyDelete(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("empty save check failed: %w", err)
	}
	fmt.Println("✓ Step 5 completed successfully")
	return nil
}

func (t *tester) checkEmptyDelete(ctx context.Context) error {
	note := noteid.New(noteid.DefaultLength)
	body, err := testNoteBody()
	if err != nil {
		return err
	}
	if err := t.saveNote(ctx, note, body); err != nil {
		return err
	}

	if err := t.saveNote(ctx, note, ""); err != nil {
		return fmt.Errorf("empty save of %s: %w", note, err)
	}

	resp, err := t.readRaw(ctx, note)
	if err != nil {
		return err
	}
	if resp.status != http.StatusNotFound {
		return fmt.Errorf("note %s still readable after empty save, status %d", note, resp.status)
	}
	return nil
}

func (t *tester) runParallelReadStep(ctx context.Context) error {
	fmt.Printf("\nStep 6: Running %d parallel raw reads\n", t.cfg.parallelReads)
	t.metrics.startStep(fmt.Sprintf("Step 6: %d parallel raw reads", t.cfg.parallelReads))
	err := t.checkParallelReads(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("parallel reads failed: %w", err)
	}
	fmt.Println("✓ Step 6 completed successfully")
	return nil
}

func (t *tester) checkParallelReads(ctx context.Context) error {
	note := noteid.New(noteid.DefaultLength)
	body, err := testNoteBody()
	if err != nil {
		return err
	}
	if err := t.saveNote(ctx, note, body); err != nil {
		return err
	}
	defer t.cleanupNotes(ctx, note)

	return runParallel(t.cfg.parallelReads, func(int) error {
		resp, readErr := t.readRaw(ctx, note)
		if readErr != nil {
			return readErr
		}
		if resp.status != http.StatusOK || string(resp.body) != body {
			return fmt.Errorf("parallel read of %s returned different content", note)
		}
		return nil
	})
}

func (t *tester) runUploadStep(ctx context.Context) error {
	fmt.Println("\nStep 7: Running upload round trip")
	t.metrics.startStep("Step 7: Upload round trip")
	err := t.checkUpload(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("upload round trip failed: %w", err)
	}
	fmt.Println("✓ Step 7 completed successfully")
	return nil
}

func (t *tester) checkUpload(ctx context.Context) error {
	data := make([]byte, t.cfg.uploadSize)
	if _, err := rand.Read(data); err != nil {
		return fmt.Errorf("generate random data: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fmt.Sprintf("webnote-test-%d.bin", time.Now().UnixNano()))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write multipart data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := t.client.do(ctx, http.MethodPost, "/upload", buf.Bytes(), writer.FormDataContentType(), "")
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("upload returned %d: %s", resp.status, string(resp.body))
	}

	var uploadResp uploadResponse
	if err := json.Unmarshal(resp.body, &uploadResp); err != nil {
		return fmt.Errorf("parse upload response: %w", err)
	}
	if uploadResp.Name == "" || uploadResp.URL != "/_tmp/"+uploadResp.Name {
		return fmt.Errorf("unexpected upload response: %+v", uploadResp)
	}
	if uploadResp.IsImage {
		return fmt.Errorf("binary upload flagged as image: %+v", uploadResp)
	}

	fetched, err := t.client.do(ctx, http.MethodGet, uploadResp.URL, nil, "", "")
	if err != nil {
		return err
	}
	if fetched.status != http.StatusOK {
		return fmt.Errorf("fetching %s returned %d", uploadResp.URL, fetched.status)
	}
	if !bytes.Equal(fetched.body, data) {
		return errors.New("fetched upload data mismatch")
	}
	return nil
}

func (t *tester) runStatusStep(ctx context.Context) error {
	fmt.Println("\nStep 8: Running status endpoint check")
	t.metrics.startStep("Step 8: Status endpoint")
	err := t.checkStatus(ctx)
	t.metrics.endStep(err)
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	fmt.Println("✓ Step 8 completed successfully")
	return nil
}

func (t *tester) checkStatus(ctx context.Context) error {
	resp, err := t.client.do(ctx, http.MethodGet, "/status", nil, "", "")
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("status returned %d", resp.status)
	}

	var status statusResponse
	if err := json.Unmarshal(resp.body, &status); err != nil {
		return fmt.Errorf("parse status response: %w", err)
	}
	if status.Version == "" {
		return errors.New("status response missing version")
	}
	if status.Notes < 0 || status.UptimeSeconds < 0 {
		return fmt.Errorf("status response out of range: %+v", status)
	}
	if status.Storage.Total == 0 || status.Storage.Available > status.Storage.Total {
		return fmt.Errorf("status storage numbers out of range: %+v", status.Storage)
	}
	return nil
}

// saveNote posts text to a note. An empty text deletes the note, which the
// cleanup path relies on.
func (t *tester) saveNote(ctx context.Context, note, text string) error {
	form := url.Values{"text": {text}}
	resp, err := t.client.do(ctx, http.MethodPost, "/"+note, []byte(form.Encode()), formContentType, "")
	if err != nil {
		return fmt.Errorf("save note %s: %w", note, err)
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("save note %s returned %d", note, resp.status)
	}
	return nil
}

func (t *tester) readRaw(ctx context.Context, note string) (*probeResponse, error) {
	return t.client.do(ctx, http.MethodGet, "/"+note+"?raw", nil, "", "")
}

func (t *tester) cleanupNotes(ctx context.Context, notes ...string) {
	for _, note := range notes {
		if note == "" {
			continue
		}
		if err := t.saveNote(ctx, note, ""); err != nil {
			fmt.Fprintf(os.Stderr, "failed to cleanup note %s: %v\n", note, err)
		}
	}
}

// testNoteBody builds a unique probe body so concurrent runs against the
// same server cannot collide.
func testNoteBody() (string, error) {
	tag := make([]byte, 4)
	if _, err := rand.Read(tag); err != nil {
		return "", fmt.Errorf("generate note tag: %w", err)
	}
	return fmt.Sprintf("webnote-test probe %s\ncreated %s\n", hex.EncodeToString(tag), time.Now().Format(time.RFC3339)), nil
}

func runParallel(count int, function func(int) error) error {
	var waitGroup sync.WaitGroup
	errCh := make(chan error, count)

	for index := range count {
		waitGroup.Add(1)
		go func(idx int) {
			defer waitGroup.Done()
			if err := function(idx); err != nil {
				errCh <- err
			}
		}(index)
	}

	waitGroup.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}

	return nil
}
