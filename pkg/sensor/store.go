package sensor

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"sync"

	"github.com/robotalks/sensorlink/pkg/msgs"
)

// DefaultConfig is the configuration before anything is persisted,
// and after Reset.
var DefaultConfig = msgs.ConfigPayload{Samples: 1}

// ConfigStore persists the configuration.
type ConfigStore interface {
	Load() (msgs.ConfigPayload, error)
	Save(msgs.ConfigPayload) error
}

// MemoryStore keeps the configuration in memory.
type MemoryStore struct {
	config msgs.ConfigPayload
	saved  bool
	lock   sync.Mutex
}

// Load implements ConfigStore.
func (s *MemoryStore) Load() (msgs.ConfigPayload, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.saved {
		return DefaultConfig, nil
	}
	return s.config, nil
}

// Save implements ConfigStore.
func (s *MemoryStore) Save(config msgs.ConfigPayload) error {
	s.lock.Lock()
	s.config, s.saved = config, true
	s.lock.Unlock()
	return nil
}

// FileStore keeps the configuration in a JSON file.
type FileStore struct {
	Path string
}

// Load implements ConfigStore.
func (s *FileStore) Load() (msgs.ConfigPayload, error) {
	data, err := ioutil.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return DefaultConfig, nil
	}
	if err != nil {
		return msgs.ConfigPayload{}, err
	}
	var config msgs.ConfigPayload
	err = json.Unmarshal(data, &config)
	return config, err
}

// Save implements ConfigStore.
// The file is replaced atomically.
func (s *FileStore) Save(config msgs.ConfigPayload) error {
	data, err := json.Marshal(&config)
	if err != nil {
		panic(err)
	}
	tmp := s.Path + ".tmp"
	if err = ioutil.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
