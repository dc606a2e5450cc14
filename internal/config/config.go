// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the runtime properties of a refget server.
//
// Properties start from built in defaults, are overridden by an optional
// properties file of key=value lines and finally by environment variables
// named after the property (source.base_url becomes SOURCE_BASE_URL).
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Property keys.
const (
	SourceBaseURL      = "source.base_url"
	SourceSequencePath = "source.sequence_path"
	SourceMetadataPath = "source.metadata_path"
	ServerPort         = "server.port"
	MetadataCacheTTL   = "metadata.cache_ttl"
)

const idPlaceholder = "{seqid}"

var defaults = map[string]interface{}{
	SourceBaseURL:      "http://insdc-mirror.s3-website-us-west-2.amazonaws.com",
	SourceSequencePath: "/sequence/" + idPlaceholder,
	SourceMetadataPath: "/metadata/json/" + idPlaceholder + ".json",
	ServerPort:         8888,
	MetadataCacheTTL:   "0s",
}

// Properties holds the runtime configuration of a server.  It is not
// modified after loading.
type Properties struct {
	Source struct {
		BaseURL      string `koanf:"base_url"`
		SequencePath string `koanf:"sequence_path"`
		MetadataPath string `koanf:"metadata_path"`
	} `koanf:"source"`
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
	Metadata struct {
		CacheTTL time.Duration `koanf:"cache_ttl"`
	} `koanf:"metadata"`
}

// SequenceObject returns the object path of the sequence with the given id.
func (p *Properties) SequenceObject(id string) string {
	return strings.Replace(p.Source.SequencePath, idPlaceholder, id, -1)
}

// MetadataObject returns the object path of the metadata of the sequence
// with the given id.
func (p *Properties) MetadataObject(id string) string {
	return strings.Replace(p.Source.MetadataPath, idPlaceholder, id, -1)
}

// Default returns the default properties.
func Default() *Properties {
	props, err := New(nil)
	if err != nil {
		panic(fmt.Sprintf("loading default properties: %v", err))
	}
	return props
}

// New returns properties built from the defaults overridden by values.
func New(values map[string]string) (*Properties, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}
	if err := set(k, values); err != nil {
		return nil, err
	}
	return unmarshal(k)
}

// Load reads properties from the optional file at path and from the
// environment.  Environment variables take precedence over the file.
func Load(path string) (*Properties, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, &Error{ExitFileNotFound, fmt.Sprintf("properties file not found: %s", path)}
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, &Error{ExitParse, fmt.Sprintf("could not parse properties file: %v", err)}
		}
		if err := set(k, values); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("", ".", environmentKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %v", err)
	}
	return unmarshal(k)
}

// EnvironmentVariable returns the name of the environment variable that
// overrides key.
func EnvironmentVariable(key string) string {
	return strings.ToUpper(strings.Replace(key, ".", "_", -1))
}

// Keys returns the recognized property keys in sorted order.
func Keys() []string {
	var keys []string
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func environmentKey(name string) string {
	for key := range defaults {
		if EnvironmentVariable(key) == name {
			return key
		}
	}
	return ""
}

func newKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %v", key, err)
		}
	}
	return k, nil
}

func set(k *koanf.Koanf, values map[string]string) error {
	for key, value := range values {
		if _, ok := defaults[key]; !ok {
			return &Error{ExitInvalidProperty, "unrecognized property: " + key}
		}
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("setting %s: %v", key, err)
		}
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Properties, error) {
	var props Properties
	if err := k.Unmarshal("", &props); err != nil {
		return nil, &Error{ExitParse, fmt.Sprintf("invalid properties: %v", err)}
	}
	if !strings.Contains(props.Source.SequencePath, idPlaceholder) {
		return nil, &Error{ExitInvalidProperty, fmt.Sprintf("%s must contain %s", SourceSequencePath, idPlaceholder)}
	}
	if !strings.Contains(props.Source.MetadataPath, idPlaceholder) {
		return nil, &Error{ExitInvalidProperty, fmt.Sprintf("%s must contain %s", SourceMetadataPath, idPlaceholder)}
	}
	return &props, nil
}
