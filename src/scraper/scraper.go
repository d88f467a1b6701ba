package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
)

// Page locators for the fleet portal. The portal UI owns these; they
// break when it changes.
const (
	loginEmailSel       = `#email`
	loginPasswordSel    = `#password`
	loginButtonXPath    = `//button[contains(text(), 'Sign in') or contains(text(), 'SIGN IN')]`
	dashboardXPath      = `//h2[contains(text(), 'Device Fleet')]`
	nameFilterXPath     = `//input[contains(@placeholder, 'Name')]`
	idFilterXPath       = `//input[contains(@placeholder, 'ID')]`
	applyFilterXPath    = `//button[contains(text(), 'Apply Filter')]`
	dataFilterXPath     = `//h2[contains(text(), 'Filter Data')]`
	yesterdayBtnXPath   = `//button[text()='Yesterday']`
	rawBtnXPath         = `//button[text()='Raw']`
	applyFiltersXPath   = `//button[contains(text(), 'Apply Filters')]`
	downloadCsvXPath    = `//h2[contains(text(), 'Sensor Data')]/following::button[contains(text(), 'Download CSV')]`
	downloadWaitTimeout = 60 * time.Second
)

// PortalScraper drives a headless browser through the portal's export
// flow: login, filter to the device, select yesterday's raw data, and
// download the CSV.
type PortalScraper struct {
	portal toml.PortalConfig
	device toml.DeviceConfig
}

func New(cfg toml.TomlConfig) *PortalScraper {
	return &PortalScraper{portal: cfg.Portal, device: cfg.Device}
}

// FetchDailyExport runs the whole export flow and returns the path of
// the downloaded CSV.
func (s *PortalScraper) FetchDailyExport(ctx context.Context) (string, error) {
	downloadDir, err := filepath.Abs(s.portal.DownloadDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	downloaded := make(chan string, 1)
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if e, ok := ev.(*browser.EventDownloadProgress); ok && e.State == browser.DownloadProgressStateCompleted {
			select {
			case downloaded <- e.GUID:
			default:
			}
		}
	})

	deviceCellXPath := fmt.Sprintf(`//td[contains(text(), '%s')]`, s.device.Name)

	steps := []struct {
		name    string
		timeout time.Duration
		action  chromedp.Action
	}{
		{"configure downloads", s.stepTimeout(), browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true)},
		{"open portal", s.stepTimeout(), chromedp.Navigate(s.portal.BaseUrl)},
		{"login", s.stepTimeout(), chromedp.Tasks{
			chromedp.WaitVisible(loginEmailSel, chromedp.ByID),
			chromedp.SendKeys(loginEmailSel, s.portal.Username, chromedp.ByID),
			chromedp.SendKeys(loginPasswordSel, s.portal.Password, chromedp.ByID),
			chromedp.Click(loginButtonXPath, chromedp.BySearch),
		}},
		{"wait for dashboard", 25 * time.Second, chromedp.WaitVisible(dashboardXPath, chromedp.BySearch)},
		{"filter device", s.stepTimeout(), chromedp.Tasks{
			chromedp.WaitVisible(nameFilterXPath, chromedp.BySearch),
			chromedp.SendKeys(nameFilterXPath, s.device.Name, chromedp.BySearch),
			chromedp.SendKeys(idFilterXPath, s.device.Id, chromedp.BySearch),
			chromedp.Click(applyFilterXPath, chromedp.BySearch),
		}},
		{"open device details", s.stepTimeout(), chromedp.Click(deviceCellXPath, chromedp.BySearch)},
		{"wait for data filters", 25 * time.Second, chromedp.WaitVisible(dataFilterXPath, chromedp.BySearch)},
		{"select yesterday raw", s.stepTimeout(), chromedp.Tasks{
			chromedp.Click(yesterdayBtnXPath, chromedp.BySearch),
			chromedp.Click(rawBtnXPath, chromedp.BySearch),
			chromedp.Click(applyFiltersXPath, chromedp.BySearch),
		}},
		{"download csv", 25 * time.Second, chromedp.Tasks{
			chromedp.WaitVisible(downloadCsvXPath, chromedp.BySearch),
			chromedp.Click(downloadCsvXPath, chromedp.BySearch),
		}},
	}

	for _, step := range steps {
		stepCtx, cancel := context.WithTimeout(taskCtx, step.timeout)
		err := chromedp.Run(stepCtx, step.action)
		cancel()
		if err != nil {
			return "", fmt.Errorf("portal step %q: %w", step.name, err)
		}
		log.Logger.Info("portal step done", zap.String("step", step.name))
	}

	select {
	case guid := <-downloaded:
		src := filepath.Join(downloadDir, guid)
		dst := filepath.Join(downloadDir, fmt.Sprintf("sensor_data_%s.csv", time.Now().UTC().Format("20060102_150405")))
		if err := os.Rename(src, dst); err != nil {
			return "", fmt.Errorf("move download: %w", err)
		}
		log.Logger.Info("portal export downloaded", zap.String("file", dst))
		return dst, nil
	case <-time.After(downloadWaitTimeout):
		return "", fmt.Errorf("timed out waiting for csv download")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *PortalScraper) stepTimeout() time.Duration {
	secs := s.portal.StepTimeoutSeconds
	if secs <= 0 {
		secs = 15
	}
	return time.Duration(secs) * time.Second
}
