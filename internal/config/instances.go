package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Instance is a running dashboard server recorded in instances.json so that a
// second `molty serve` on the same port fails with a useful message.
type Instance struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	StaticDir string    `json:"static_dir,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// URL returns the address a browser would open.
func (i Instance) URL() string {
	return "http://" + net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

// Registry stores live instances in a JSON file.
type Registry struct {
	path  string
	alive func(pid int) bool
}

// NewRegistry returns a registry backed by dir/instances.json.
func NewRegistry(dir string) *Registry {
	return &Registry{
		path:  filepath.Join(dir, "instances.json"),
		alive: processAlive,
	}
}

// DefaultRegistry returns the registry under ~/.molty.
func DefaultRegistry() (*Registry, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return NewRegistry(dir), nil
}

// Register records inst, dropping entries whose process has exited.
func (r *Registry) Register(inst Instance) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	instances, _ := r.read()
	instances = append(r.live(instances), inst)
	return r.write(instances)
}

// Unregister removes the entry for pid.
func (r *Registry) Unregister(pid int) error {
	instances, err := r.read()
	if err != nil {
		return err
	}
	kept := instances[:0]
	for _, inst := range instances {
		if inst.PID != pid {
			kept = append(kept, inst)
		}
	}
	return r.write(kept)
}

// List returns live instances and prunes dead ones from the file.
func (r *Registry) List() ([]Instance, error) {
	instances, err := r.read()
	if err != nil {
		return nil, err
	}
	live := r.live(instances)
	if len(live) != len(instances) {
		r.write(live)
	}
	return live, nil
}

// FindByPort returns the live instance bound to port, or nil.
func (r *Registry) FindByPort(port int) *Instance {
	instances, err := r.List()
	if err != nil {
		return nil
	}
	for i := range instances {
		if instances[i].Port == port {
			return &instances[i]
		}
	}
	return nil
}

func (r *Registry) live(instances []Instance) []Instance {
	out := make([]Instance, 0, len(instances))
	for _, inst := range instances {
		if r.alive(inst.PID) {
			out = append(out, inst)
		}
	}
	return out
}

func (r *Registry) read() ([]Instance, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var instances []Instance
	if err := sonic.Unmarshal(data, &instances); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return instances, nil
}

func (r *Registry) write(instances []Instance) error {
	data, err := sonic.ConfigStd.MarshalIndent(instances, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}
