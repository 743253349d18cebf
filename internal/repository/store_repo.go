package repository

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/chickspot/chickspot/internal/callbacks"
	"github.com/chickspot/chickspot/internal/model"
)

type storeSeed struct {
	ExternalID string  `yaml:"external_id"`
	Name       string  `yaml:"name"`
	Address    string  `yaml:"address,omitempty"`
	City       string  `yaml:"city,omitempty"`
	State      string  `yaml:"state,omitempty"`
	Zip        string  `yaml:"zip,omitempty"`
	Lat        float64 `yaml:"lat"`
	Lon        float64 `yaml:"lon"`
	Active     *bool   `yaml:"active,omitempty"`
}

// StoreFileRepository keeps the store catalog seeded from a yaml file and
// reloads it when the file changes.
type StoreFileRepository struct {
	storesFile string
	logger     *slog.Logger
	stores     map[string]*model.Store

	reloadCb *callbacks.Callback[[]*model.Store]

	watcher *fsnotify.Watcher

	mx sync.RWMutex
}

func NewStoreFileRepo(storesFile string) *StoreFileRepository {
	r := &StoreFileRepository{
		logger:     slog.Default().With("logger", "StoreRepo"),
		storesFile: storesFile,
		stores:     make(map[string]*model.Store),
		reloadCb:   callbacks.New[[]*model.Store](),
	}

	if err := r.loadStoresFile(); err != nil {
		r.logger.Error("error loading stores file", slog.Any("error", err))
	}

	return r
}

func (r *StoreFileRepository) ReloadCallback() *callbacks.Callback[[]*model.Store] {
	return r.reloadCb
}

func (r *StoreFileRepository) loadStoresFile() error {
	r.mx.Lock()
	defer r.mx.Unlock()

	if _, err := os.Lstat(r.storesFile); os.IsNotExist(err) {
		// create empty file
		f, err := os.Create(r.storesFile)
		if err != nil {
			return err
		}

		return f.Close()
	}

	dat, err := os.ReadFile(r.storesFile)
	if err != nil {
		return err
	}

	seeds := make([]*storeSeed, 0)

	if err := yaml.Unmarshal(dat, &seeds); err != nil {
		return err
	}

	r.stores = make(map[string]*model.Store)

	for _, s := range seeds {
		if s.ExternalID == "" || s.Name == "" {
			continue
		}

		active := true
		if s.Active != nil {
			active = *s.Active
		}

		r.stores[s.ExternalID] = &model.Store{
			ExternalID: s.ExternalID,
			Name:       s.Name,
			Address:    s.Address,
			City:       s.City,
			State:      s.State,
			Zip:        s.Zip,
			Lat:        s.Lat,
			Lon:        s.Lon,
			Active:     active,
		}
	}

	return nil
}

func (r *StoreFileRepository) Start() error {
	var err error
	r.watcher, err = fsnotify.NewWatcher()

	if err != nil {
		return err
	}

	if err := r.watcher.Add(r.storesFile); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-r.watcher.Events:
				if !ok {
					return
				}

				r.logger.Debug(fmt.Sprintf("event: %v", event))

				if event.Has(fsnotify.Write) && event.Name == r.storesFile {
					r.logger.Info("stores file is modified, reloading")

					if err := r.loadStoresFile(); err != nil {
						r.logger.Error("error", slog.Any("error", err))
						continue
					}

					r.reloadCb.AddMessage(r.List())
				}
			case err, ok := <-r.watcher.Errors:
				if !ok {
					return
				}

				r.logger.Error("watcher error", slog.Any("error", err))
			}
		}
	}()

	r.reloadCb.AddMessage(r.List())

	return nil
}

func (r *StoreFileRepository) Stop() {
	if r.watcher != nil {
		_ = r.watcher.Close()
	}
}

func (r *StoreFileRepository) Get(externalID string) *model.Store {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return r.stores[externalID]
}

func (r *StoreFileRepository) List() []*model.Store {
	r.mx.RLock()
	defer r.mx.RUnlock()

	res := make([]*model.Store, 0, len(r.stores))

	for _, s := range r.stores {
		res = append(res, s)
	}

	return res
}

func (r *StoreFileRepository) ForEach(f func(s *model.Store) bool) {
	for _, s := range r.List() {
		if !f(s) {
			return
		}
	}
}
