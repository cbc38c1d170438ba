// Copyright 2025 Oracle Health Analytics
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


package storage

import (
	"github.com/oraclehealth/clinsight/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalClinicalRecord serializes a ClinicalRecord to bytes.
func MarshalClinicalRecord(record *core.ClinicalRecord) []byte {
	buf := make([]byte, core.ClinicalRecordMUS.Size(*record))
	core.ClinicalRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalClinicalRecord deserializes a ClinicalRecord from bytes.
func UnmarshalClinicalRecord(data []byte) (*core.ClinicalRecord, error) {
	record, _, err := core.ClinicalRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalGuideline serializes a Guideline to bytes.
func MarshalGuideline(guideline *core.Guideline) []byte {
	buf := make([]byte, core.GuidelineMUS.Size(*guideline))
	core.GuidelineMUS.Marshal(*guideline, buf)
	return buf
}

// UnmarshalGuideline deserializes a Guideline from bytes.
func UnmarshalGuideline(data []byte) (*core.Guideline, error) {
	guideline, _, err := core.GuidelineMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &guideline, nil
}
