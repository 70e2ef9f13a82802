package gsuite

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/facturascan/facturascan/internal/common"
)

var scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveFileScope,
}

// Auth owns the Google API session used by the Sheets and Drive
// collaborators. Initialize is idempotent; the service handles are built
// once and reused.
type Auth struct {
	credentialsFile string
	logger          *slog.Logger

	mu          sync.Mutex
	initialized bool
	sheetsSvc   *sheets.Service
	driveSvc    *drive.Service
}

func NewAuth(credentialsFile string, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{credentialsFile: credentialsFile, logger: logger}
}

// Initialize loads the service-account credentials and builds the Sheets
// and Drive clients. Safe to call repeatedly.
func (a *Auth) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return nil
	}
	if a.credentialsFile == "" {
		return common.NewAppError(common.ErrAuthentication,
			"no hay credenciales de Google configuradas", nil)
	}

	raw, err := os.ReadFile(a.credentialsFile)
	if err != nil {
		return common.NewAppError(common.ErrAuthentication,
			"no se pudieron leer las credenciales de Google", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, scopes...)
	if err != nil {
		return common.NewAppError(common.ErrAuthentication,
			"credenciales de Google inválidas", err)
	}

	sheetsSvc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return common.NewAppError(common.ErrAuthentication,
			"no se pudo inicializar el cliente de Sheets", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return common.NewAppError(common.ErrAuthentication,
			"no se pudo inicializar el cliente de Drive", err)
	}

	a.sheetsSvc = sheetsSvc
	a.driveSvc = driveSvc
	a.initialized = true
	a.logger.Info("gsuite.initialized")
	return nil
}

// SignIn ensures an authenticated session exists.
func (a *Auth) SignIn(ctx context.Context) error {
	return a.Initialize(ctx)
}

// IsSignedIn reports whether Initialize has completed.
func (a *Auth) IsSignedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

// Sheets returns the Sheets client; nil before Initialize.
func (a *Auth) Sheets() *sheets.Service {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sheetsSvc
}

// Drive returns the Drive client; nil before Initialize.
func (a *Auth) Drive() *drive.Service {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.driveSvc
}
