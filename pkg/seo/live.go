package seo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"portfolio/pkg/logger"
)

// LiveCapturer snapshots pages rendered by a headless Chrome. Unlike
// ParseHTML it sees client rendered markup and can measure natural image
// sizes and tap target boxes.
type LiveCapturer struct {
	timeout time.Duration
	logger  *zap.Logger
	opts    []chromedp.ExecAllocatorOption
}

// NewLiveCapturer returns a capturer that gives each page load timeout.
func NewLiveCapturer(timeout time.Duration, l *zap.Logger) *LiveCapturer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 800),
	)
	return &LiveCapturer{
		timeout: timeout,
		logger:  logger.OrNop(l),
		opts:    opts,
	}
}

type liveProbe struct {
	URL     string       `json:"url"`
	Images  []probeImage `json:"images"`
	Targets []TapTarget  `json:"targets"`
}

type probeImage struct {
	Src           string `json:"src"`
	NaturalWidth  int    `json:"naturalWidth"`
	NaturalHeight int    `json:"naturalHeight"`
}

const liveProbeScript = `(() => ({
	url: location.href,
	images: Array.from(document.images).map(img => ({
		src: img.getAttribute('src') || '',
		naturalWidth: img.naturalWidth,
		naturalHeight: img.naturalHeight,
	})),
	targets: Array.from(document.querySelectorAll('a, button')).map(el => {
		const box = el.getBoundingClientRect();
		return {Tag: el.tagName.toLowerCase(), Width: box.width, Height: box.height};
	}),
}))()`

// Capture loads pageURL and returns its snapshot.
func (c *LiveCapturer) Capture(ctx context.Context, pageURL string) (*Snapshot, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()

	var (
		html  string
		probe liveProbe
	)
	start := time.Now()
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(liveProbeScript, &probe),
	)
	if err != nil {
		c.logger.Error("failed to capture page", zap.String("url", pageURL), zap.Error(err))
		return nil, fmt.Errorf("capture %s: %w", pageURL, err)
	}
	c.logger.Info("captured page", zap.String("url", pageURL), zap.Duration("elapsed", time.Since(start)))

	finalURL := probe.URL
	if finalURL == "" {
		finalURL = pageURL
	}
	snap, err := ParseHTML(finalURL, strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	mergeProbe(snap, probe)
	return snap, nil
}

// mergeProbe copies browser measurements onto snap. Images are matched by
// position when both lists line up, by src otherwise.
func mergeProbe(snap *Snapshot, probe liveProbe) {
	snap.TapTargets = append([]TapTarget(nil), probe.Targets...)

	if len(probe.Images) == len(snap.Images) {
		for i, img := range probe.Images {
			snap.Images[i].NaturalWidth = img.NaturalWidth
			snap.Images[i].NaturalHeight = img.NaturalHeight
		}
		return
	}
	bySrc := make(map[string]int, len(probe.Images))
	for i, img := range probe.Images {
		if _, ok := bySrc[img.Src]; !ok {
			bySrc[img.Src] = i
		}
	}
	for i := range snap.Images {
		if j, ok := bySrc[snap.Images[i].Src]; ok {
			snap.Images[i].NaturalWidth = probe.Images[j].NaturalWidth
			snap.Images[i].NaturalHeight = probe.Images[j].NaturalHeight
		}
	}
}
