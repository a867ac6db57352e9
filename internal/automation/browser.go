package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
)

const defaultLoginTimeout = 90 * time.Second

// BrowserConfig настройки браузера для автоматизации портала.
type BrowserConfig struct {
	// RemoteURL адрес удаленного Chrome; если пуст, запускается свой экземпляр
	RemoteURL string
	// Headless режим без окна (по умолчанию включен)
	Headless bool
	// NoSandbox нужен при запуске под root в контейнере
	NoSandbox bool
	// LoginTimeout общий лимит времени на вход
	LoginTimeout time.Duration
}

// Browser управляет экземпляром Chrome для входа на портал продавца.
type Browser struct {
	config      BrowserConfig
	logger      logger.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewBrowser создает браузер с собственным аллокатором Chrome.
func NewBrowser(config BrowserConfig, log logger.Logger) *Browser {
	if config.LoginTimeout == 0 {
		config.LoginTimeout = defaultLoginTimeout
	}

	b := &Browser{
		config: config,
		logger: log,
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if config.RemoteURL != "" {
		b.allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
	} else {
		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	return b
}

// session страница браузера, привязанная к одному входу на портал.
type session struct {
	ctx context.Context
}

// Probe проверяет наличие элемента на текущей странице.
func (s *session) Probe(ctx context.Context, selector string) (bool, error) {
	var found bool
	script := fmt.Sprintf("document.querySelector(%q) !== null", selector)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &found)); err != nil {
		return false, fmt.Errorf("probe failed: %w", err)
	}
	return found, nil
}

// Credentials учетные данные портала продавца.
type Credentials struct {
	Username string
	Password string
}

// LoginResult результат входа: cookie сессии портала.
type LoginResult struct {
	Cookies []*network.Cookie
	// UsedLocators имена сработавших стратегий, по шагам входа
	UsedLocators []string
}

// Шаги формы входа. Для каждого шага перечислены известные варианты верстки.
var (
	usernameLocators = []Locator{
		{Name: "username-by-name", Selector: `input[name="username"]`},
		{Name: "username-by-type", Selector: `form input[type="text"]`},
		{Name: "username-by-autocomplete", Selector: `input[autocomplete="username"]`},
	}
	passwordLocators = []Locator{
		{Name: "password-by-name", Selector: `input[name="password"]`},
		{Name: "password-by-type", Selector: `form input[type="password"]`},
	}
	submitLocators = []Locator{
		{Name: "submit-by-type", Selector: `form button[type="submit"]`},
		{Name: "submit-by-role", Selector: `button[data-role="login"]`},
	}
	loggedInLocators = []Locator{
		{Name: "dashboard-root", Selector: `[data-testid="dashboard"]`},
		{Name: "profile-menu", Selector: `[class*="profile"]`},
	}
)

// Login выполняет вход на портал продавца и возвращает cookie сессии.
// Каждый шаг формы ищется по списку стратегий с общим лимитом времени на шаг.
func (b *Browser) Login(ctx context.Context, portalURL string, creds Credentials) (*LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.LoginTimeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(b.allocCtx)
	defer browserCancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(portalURL)); err != nil {
		return nil, fmt.Errorf("failed to open portal: %w", err)
	}

	page := &session{ctx: browserCtx}
	stepTimeout := b.config.LoginTimeout / 4
	result := &LoginResult{}

	steps := []struct {
		name     string
		locators []Locator
		action   func(locator Locator) error
	}{
		{
			name:     "username",
			locators: usernameLocators,
			action: func(locator Locator) error {
				return chromedp.Run(browserCtx, chromedp.SendKeys(locator.Selector, creds.Username))
			},
		},
		{
			name:     "password",
			locators: passwordLocators,
			action: func(locator Locator) error {
				return chromedp.Run(browserCtx, chromedp.SendKeys(locator.Selector, creds.Password))
			},
		},
		{
			name:     "submit",
			locators: submitLocators,
			action: func(locator Locator) error {
				return chromedp.Run(browserCtx, chromedp.Click(locator.Selector))
			},
		},
		{
			name:     "logged-in",
			locators: loggedInLocators,
			action:   func(Locator) error { return nil },
		},
	}

	for _, step := range steps {
		outcome, err := WaitForAny(ctx, page, step.locators, stepTimeout)
		if err != nil {
			return nil, fmt.Errorf("login step %s: %w", step.name, err)
		}
		if !outcome.Found {
			return nil, fmt.Errorf("login step %s: no locator matched after %v", step.name, outcome.Elapsed)
		}

		locator := locatorByName(step.locators, outcome.Locator)
		if err := step.action(locator); err != nil {
			return nil, fmt.Errorf("login step %s: %w", step.name, err)
		}

		result.UsedLocators = append(result.UsedLocators, outcome.Locator)
		b.logger.InfoWithContext(ctx, "Шаг входа выполнен",
			logger.Field{Key: "step", Value: step.name},
			logger.Field{Key: "locator", Value: outcome.Locator},
			logger.Field{Key: "elapsed", Value: outcome.Elapsed.String()})
	}

	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		result.Cookies = cookies
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read session cookies: %w", err)
	}

	return result, nil
}

func locatorByName(locators []Locator, name string) Locator {
	for _, l := range locators {
		if l.Name == name {
			return l
		}
	}
	return Locator{}
}

// Close освобождает ресурсы браузера.
func (b *Browser) Close() error {
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}
