package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"
)

const keySep = 0x00

// base runs against the enclosing transaction when there is one and opens
// its own otherwise.
type base struct {
	db  *bbolt.DB
	tx  *bbolt.Tx
	now func() time.Time
}

func (b base) view(fn func(tx *bbolt.Tx) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	return b.db.View(fn)
}

func (b base) update(fn func(tx *bbolt.Tx) error) error {
	if b.tx != nil {
		if !b.tx.Writable() {
			return bbolt.ErrTxNotWritable
		}
		return fn(b.tx)
	}
	return b.db.Update(fn)
}

func (b base) timestamp() time.Time {
	if b.now == nil {
		return time.Now().UTC()
	}
	return b.now().UTC()
}

func getJSON(bucket *bbolt.Bucket, key []byte, dest interface{}) (bool, error) {
	raw := bucket.Get(key)
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func putJSON(bucket *bbolt.Bucket, key []byte, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return bucket.Put(key, payload)
}

// compositeKey joins parts with a NUL separator so prefix scans stay exact.
func compositeKey(parts ...string) []byte {
	var buf bytes.Buffer
	for i, part := range parts {
		if i > 0 {
			buf.WriteByte(keySep)
		}
		buf.WriteString(part)
	}
	return buf.Bytes()
}

// prefixKey is compositeKey with a trailing separator.
func prefixKey(parts ...string) []byte {
	return append(compositeKey(parts...), keySep)
}

// sortable encodes t so that byte order matches chronological order.
func sortable(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

func scanPrefix(bucket *bbolt.Bucket, prefix []byte, fn func(k, v []byte) error) error {
	c := bucket.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}
