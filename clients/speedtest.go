package clients

import (
	"fmt"
	"time"

	"resty.dev/v3"
)

const (
	speedHost      = "https://speed.cloudflare.com"
	transferBytes  = 25_000_000
	bitsPerMegabit = 1_000_000
)

// SpeedResult holds one network measurement.
type SpeedResult struct {
	LatencyMillis float64
	DownloadMbps  float64
	UploadMbps    float64
}

// SpeedTester measures the connection the bot process is running on.
type SpeedTester interface {
	Measure() (*SpeedResult, error)
}

// CloudflareSpeedTester measures latency and throughput against the
// Cloudflare speed endpoints. A full measurement blocks for a while; run it
// off the dispatch path.
type CloudflareSpeedTester struct {
	http *resty.Client
}

func NewCloudflareSpeedTester() *CloudflareSpeedTester {
	return &CloudflareSpeedTester{http: resty.New().SetBaseURL(speedHost)}
}

func (t *CloudflareSpeedTester) Measure() (*SpeedResult, error) {
	latency, err := t.measureLatency()
	if err != nil {
		return nil, err
	}
	download, err := t.measureDownload()
	if err != nil {
		return nil, err
	}
	upload, err := t.measureUpload()
	if err != nil {
		return nil, err
	}
	return &SpeedResult{
		LatencyMillis: latency,
		DownloadMbps:  download,
		UploadMbps:    upload,
	}, nil
}

func (t *CloudflareSpeedTester) measureLatency() (float64, error) {
	start := time.Now()
	res, err := t.http.R().Get("/__down?bytes=0")
	if err != nil {
		return 0, fmt.Errorf("latency probe failed: %w", err)
	}
	if res.IsError() {
		return 0, fmt.Errorf("latency probe failed: %s", res.Status())
	}
	return float64(time.Since(start).Microseconds()) / 1000, nil
}

func (t *CloudflareSpeedTester) measureDownload() (float64, error) {
	start := time.Now()
	res, err := t.http.R().Get(fmt.Sprintf("/__down?bytes=%d", transferBytes))
	if err != nil {
		return 0, fmt.Errorf("download measurement failed: %w", err)
	}
	if res.IsError() {
		return 0, fmt.Errorf("download measurement failed: %s", res.Status())
	}
	return throughputMbps(transferBytes, time.Since(start)), nil
}

func (t *CloudflareSpeedTester) measureUpload() (float64, error) {
	payload := make([]byte, transferBytes)
	start := time.Now()
	res, err := t.http.R().SetBody(payload).Post("/__up")
	if err != nil {
		return 0, fmt.Errorf("upload measurement failed: %w", err)
	}
	if res.IsError() {
		return 0, fmt.Errorf("upload measurement failed: %s", res.Status())
	}
	return throughputMbps(transferBytes, time.Since(start)), nil
}

func throughputMbps(bytes int, elapsed time.Duration) float64 {
	return float64(bytes) * 8 / elapsed.Seconds() / bitsPerMegabit
}
