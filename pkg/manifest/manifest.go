// pkg/manifest/manifest.go

package manifest

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package manifest reads the declarative service topology the container
// runtime will start after provisioning. keel consumes this file as a
// readiness gate; it never generates or mutates it.

// Manifest is the static topology: service names, images, port bindings,
// dependency edges, and the single shared network.
type Manifest struct {
	Name     string             `yaml:"name" validate:"required"`
	Networks map[string]Network `yaml:"networks" validate:"required,len=1"`
	Services map[string]Service `yaml:"services" validate:"required,min=1,dive"`
}

type Network struct {
	Driver string `yaml:"driver"`
}

type Service struct {
	Image     string   `yaml:"image" validate:"required"`
	Ports     []string `yaml:"ports"`
	DependsOn []string `yaml:"depends_on"`
	Networks  []string `yaml:"networks" validate:"required,min=1"`
}

var validate = validator.New()

// Load reads and decodes the manifest, rejecting unknown fields so a typo
// in the topology surfaces here instead of at container start.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "read manifest %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, cerr.Wrapf(err, "decode manifest %s", path)
	}
	return &m, nil
}

// Validate checks struct constraints plus the topology invariants: one
// shared network that every service joins, and dependency edges that
// resolve to declared services.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return cerr.Wrap(err, "manifest validation")
	}

	var sharedNetwork string
	for name := range m.Networks {
		sharedNetwork = name
	}

	names := make([]string, 0, len(m.Services))
	for name := range m.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		svc := m.Services[name]

		onShared := false
		for _, n := range svc.Networks {
			if n == sharedNetwork {
				onShared = true
			} else {
				return cerr.Newf("service %q references undeclared network %q", name, n)
			}
		}
		if !onShared {
			return cerr.Newf("service %q is not on the shared network %q", name, sharedNetwork)
		}

		for _, dep := range svc.DependsOn {
			if dep == name {
				return cerr.Newf("service %q depends on itself", name)
			}
			if _, ok := m.Services[dep]; !ok {
				return cerr.Newf("service %q depends on undeclared service %q", name, dep)
			}
		}
	}
	return nil
}

// Summary renders a one-line description for the ledger.
func (m *Manifest) Summary() string {
	return fmt.Sprintf("topology %q: %d services on network %s", m.Name, len(m.Services), m.sharedNetworkName())
}

func (m *Manifest) sharedNetworkName() string {
	for name := range m.Networks {
		return name
	}
	return ""
}
