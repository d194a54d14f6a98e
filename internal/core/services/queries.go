// Copyright 2025 Art Beyond Sight
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic for interacting with data
// sources. This file centralizes the BigQuery SQL used by the artifact
// store. Queries use fmt.Sprintf verbs only for table names; user-supplied
// values are always bound as query parameters.
package services

const (
	// QryFindArtifactById looks up a single stored analysis by its row id.
	// The one placeholder is the fully qualified artifact table name.
	QryFindArtifactById = "SELECT * FROM `%s` WHERE id = @id"

	// QrySearchArtifactsByName implements the fuzzy name search: it returns
	// every record whose stored name relates to the query in either
	// direction, stored name containing the query or the query containing
	// the stored name. Matching is case-insensitive; the resolver applies
	// its exact/substring priority on top of this candidate set.
	QrySearchArtifactsByName = "SELECT * FROM `%s` WHERE STRPOS(LOWER(name), LOWER(@name)) > 0 OR STRPOS(LOWER(@name), LOWER(name)) > 0 ORDER BY create_date DESC"

	// QryListArtifacts pages through stored analyses, optionally filtered
	// by category. Placeholders: table name, then the row limit.
	QryListArtifacts = "SELECT * FROM `%s` WHERE (@category = '' OR category = @category) ORDER BY create_date DESC LIMIT %d"
)
