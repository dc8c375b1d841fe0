/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package synchronizables

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yorkie-team/diffsync/pkg/diffsync"
	"github.com/yorkie-team/diffsync/server/backend/database"
)

// NewJSON creates the service of JSON entities. Empty content is accepted so
// that a new entity can be filled in.
func NewJSON(db database.Database) Synchronizable {
	return &store{
		typ:      diffsync.EntityTypeJSON,
		db:       db,
		validate: validateJSON,
	}
}

func validateJSON(content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), ErrInvalidContent)
	}

	return nil
}
