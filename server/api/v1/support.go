// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"crypto/rand"
	"io"
	"math"
	"math/big"
	"mime"
	"net/http"

	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
)

func seedOrCrypto(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "seed generate failed")
	}
	return rnd.Int64(), nil
}

func isYAML(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}

func readAll(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, errs.NewWarn("empty request body")
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errs.WrapWarn(err, "read body failed")
	}
	if len(raw) == 0 {
		return nil, errs.NewWarn("empty request body")
	}
	return raw, nil
}

// simQuery 以 GET 的解碼規則讀 query string (body 另作他用時)
func simQuery(r *http.Request) (*dto.SimRequest, error) {
	q := r.Clone(r.Context())
	q.Method = http.MethodGet
	q.Body = http.NoBody
	return dto.DecodeSimRequest(q)
}
