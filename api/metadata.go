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

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/googlegenomics/refget/internal/refget"
)

// metadataLookup reads sequence metadata documents from storage.  Documents
// have the form {"metadata": {...}}.
type metadataLookup struct {
	client Client
	object func(id string) string

	// cache is nil when caching is disabled.
	cache *ttlcache.Cache[string, *refget.Metadata]
}

func newMetadataLookup(client Client, object func(string) string, ttl time.Duration) *metadataLookup {
	lookup := &metadataLookup{client: client, object: object}
	if ttl > 0 {
		lookup.cache = ttlcache.New[string, *refget.Metadata](
			ttlcache.WithTTL[string, *refget.Metadata](ttl),
			ttlcache.WithDisableTouchOnHit[string, *refget.Metadata](),
		)
	}
	return lookup
}

func (m *metadataLookup) Metadata(ctx context.Context, id string) (*refget.Metadata, error) {
	if m.cache != nil {
		if item := m.cache.Get(id); item != nil {
			return item.Value(), nil
		}
	}

	r, err := m.client.NewObjectHandle(m.object(id)).NewRangeReader(ctx, 0, -1)
	if err != nil {
		if code, ok := storageStatus(err); ok {
			return nil, &refget.UpstreamError{Status: code, Err: err}
		}
		return nil, fmt.Errorf("opening metadata: %v", err)
	}
	defer r.Close()

	var document struct {
		Metadata *refget.Metadata `json:"metadata"`
	}
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("decoding metadata: %v", err)
	}
	if document.Metadata == nil {
		return nil, fmt.Errorf("decoding metadata: no metadata object")
	}

	if m.cache != nil {
		m.cache.Set(id, document.Metadata, ttlcache.DefaultTTL)
	}
	return document.Metadata, nil
}
