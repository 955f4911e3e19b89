// Package routeconf loads navi route trees from YAML or TOML documents.
//
// A document names its components and guards; a Registry turns those
// names into the values a navi.RouteConfig carries.
//
//	routes:
//	  - path: ""
//	    redirect_to: home
//	  - path: home
//	    component: Home
//	  - path: admin
//	    component: Admin
//	    guards: [auth]
package routeconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf guesses the document format from a file name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("routeconf: cannot tell the format of %q", name)
}

type Document struct {
	Routes []Route `yaml:"routes" toml:"routes" validate:"dive"`
}

type Route struct {
	Path       string   `yaml:"path" toml:"path" validate:"routepath"`
	RedirectTo string   `yaml:"redirect_to" toml:"redirect_to" validate:"omitempty,routepath,excluded_with=Component"`
	Component  string   `yaml:"component" toml:"component"`
	Guards     []string `yaml:"guards" toml:"guards" validate:"dive,required"`
	Children   []Route  `yaml:"children" toml:"children" validate:"dive"`
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// '?' and '#' belong to the location, never to a route pattern
	if err := v.RegisterValidation("routepath", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "?# \t\r\n")
	}); err != nil {
		panic(fmt.Sprintf("routeconf: failed to register routepath validation: %s", err))
	}
	return v
})

// Validate checks the document for malformed paths and for routes that
// both redirect and render a component.
func (d *Document) Validate() error {
	if err := validate().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("routeconf: invalid document: %s fails %q (value %q)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("routeconf: invalid document: %w", err)
	}
	return nil
}

// Decode reads and validates a document.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("routeconf: failed to decode yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, fmt.Errorf("routeconf: failed to decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("routeconf: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("routeconf: unsupported format %q", format)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads the document at path, picking the format from its extension.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routeconf: failed to read %q: %w", path, err)
	}
	return Decode(bytes.NewReader(data), format)
}
