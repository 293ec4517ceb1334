package config

import (
	"os"
	"testing"
	"time"
)

func TestRegisterAndFindByPort(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	inst := Instance{
		PID:       os.Getpid(),
		Host:      "localhost",
		Port:      8790,
		StartedAt: time.Now(),
	}
	if err := reg.Register(inst); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	found := reg.FindByPort(8790)
	if found == nil {
		t.Fatal("expected instance on port 8790")
	}
	if found.PID != os.Getpid() {
		t.Errorf("expected pid %d, got %d", os.Getpid(), found.PID)
	}
	if found.URL() != "http://localhost:8790" {
		t.Errorf("unexpected URL %q", found.URL())
	}
	if reg.FindByPort(9999) != nil {
		t.Error("expected no instance on port 9999")
	}
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	reg.Register(Instance{PID: os.Getpid(), Port: 8790})

	if err := reg.Unregister(os.Getpid()); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	instances, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("expected 0 instances, got %d", len(instances))
	}
}

func TestListPrunesDeadProcesses(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	reg.alive = func(pid int) bool { return pid == 1 }

	reg.Register(Instance{PID: 1, Port: 1000})
	reg.Register(Instance{PID: 2, Port: 2000})

	instances, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(instances) != 1 || instances[0].PID != 1 {
		t.Errorf("expected only pid 1 to survive, got %+v", instances)
	}
}

func TestListMissingFile(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	instances, err := reg.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("expected no instances, got %d", len(instances))
	}
}

func TestProcessAlive(t *testing.T) {
	if !processAlive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if processAlive(0) || processAlive(-1) {
		t.Error("non-positive PIDs should never be alive")
	}
}
