package measurement

import (
	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/errors"
	"github.com/noise-planet/noisecapture-go/internal/logging"
)

// Open selects the configured storage engine, opens it and returns a Manager
// over it together with a close function.
func Open(settings *conf.Settings, metrics *datastore.Metrics) (*Manager, func() error, error) {
	store := datastore.New(settings, metrics)
	if store == nil {
		err := errors.Newf("no database output is enabled").
			Component("measurement").
			Category(errors.CategoryConfiguration).
			Build()
		return nil, nil, err
	}

	if err := store.Open(); err != nil {
		return nil, nil, err
	}

	if logger := logging.ForService("measurement"); logger != nil {
		logger.Debug("Measurement store opened",
			"sqlite", settings.Output.SQLite.Enabled,
			"mysql", settings.Output.MySQL.Enabled)
	}

	return NewManager(store), store.Close, nil
}
