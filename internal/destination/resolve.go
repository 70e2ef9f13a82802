package destination

import (
	"github.com/facturascan/facturascan/internal/common"
	"github.com/facturascan/facturascan/internal/configstore"
)

// Resolver resolves destination identifiers: the user-entered override from
// the settings store wins over the environment default.
type Resolver struct {
	store           configstore.Store
	defaultSheetID  string
	defaultFolderID string
}

func NewResolver(store configstore.Store, defaultSheetID, defaultFolderID string) *Resolver {
	return &Resolver{store: store, defaultSheetID: defaultSheetID, defaultFolderID: defaultFolderID}
}

// SpreadsheetID returns the effective spreadsheet identifier.
func (r *Resolver) SpreadsheetID() (string, error) {
	if r.store != nil {
		if id, err := r.store.SheetID(); err == nil && id != "" {
			return id, nil
		}
	}
	if r.defaultSheetID != "" {
		return r.defaultSheetID, nil
	}
	return "", common.NewAppError(common.ErrDestinationNotConfigured,
		"no hay hoja de cálculo configurada", nil)
}

// DriveFolderID returns the effective storage folder identifier. An empty
// folder is allowed: uploads land in the storage root.
func (r *Resolver) DriveFolderID() string {
	if r.store != nil {
		if id, err := r.store.DriveFolderID(); err == nil && id != "" {
			return id
		}
	}
	return r.defaultFolderID
}
