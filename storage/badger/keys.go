package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oraclehealth/clinsight/core"
)

// Key prefixes for different data types
const (
	clinicalRecordPrefix        = "clnrec"
	clinicalRecordDatePrefix    = "clnrecd"
	clinicalRecordPatientPrefix = "clnrecp"
	clinicalRecordTypePrefix    = "clnrect"
	clinicalRecordIDSeq         = "clnrecseq"
	guidelinePrefix             = "gdlrec"
)

// makeRecordKey generates a key for a clinical record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", clinicalRecordPrefix, id))
}

// makeRecordDateKey generates a composite key for the encounter-date index.
// Format: prefix:timestamp:id
func makeRecordDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := clinicalRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRecordDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialRecordDateKey(timestamp time.Time) []byte {
	prefix := clinicalRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeRecordPatientKey generates a composite key for the patient index.
// Format: prefix:patientId:recordID
func makeRecordPatientKey(patientId uuid.UUID, id core.ID) []byte {
	prefix := clinicalRecordPatientPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 + 8 // 16 bytes for UUID + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	offset += copy(buf[offset:], patientId[:])
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRecordPatientKey generates a partial key for patient queries.
// Format: prefix:patientId
func makePartialRecordPatientKey(patientId uuid.UUID) []byte {
	prefix := clinicalRecordPatientPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 16 bytes for UUID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	copy(buf[offset:], patientId[:])
	return buf
}

// makeRecordTypeKey generates a composite key for the record-type index.
// Format: prefix:recordType:recordID
func makeRecordTypeKey(recordType core.RecordType, id core.ID) []byte {
	prefix := clinicalRecordTypePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for type + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(recordType))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRecordTypeKey generates a partial key for record-type queries.
// Format: prefix:recordType
func makePartialRecordTypeKey(recordType core.RecordType) []byte {
	prefix := clinicalRecordTypePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for type
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(recordType))
	return buf
}

// makeGuidelineKey generates a key for a guideline by ID.
func makeGuidelineKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", guidelinePrefix, id))
}
