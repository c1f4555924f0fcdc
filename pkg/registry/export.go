package registry

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	flhash "github.com/burgrp-go/flhash/pkg"
	"github.com/fxamacker/cbor/v2"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Record is the exported form of an Entry.
type Record struct {
	Hash     uint32 `json:"hash" cbor:"hash"`
	Signed   int32  `json:"signed" cbor:"signed"`
	Nickname string `json:"nickname" cbor:"nickname"`
	Kind     string `json:"kind" cbor:"kind"`
	File     string `json:"file,omitempty" cbor:"file,omitempty"`
}

func (e Entry) Record() Record {
	return Record{
		Hash:     e.Hash,
		Signed:   flhash.Signed(e.Hash),
		Nickname: e.Nickname,
		Kind:     e.Kind.String(),
		File:     e.File,
	}
}

// Export writes all entries, ordered by hash, in the given format.
func (reg *Registry) Export(w io.Writer, format Format) error {
	entries := reg.Entries()

	switch format {
	case FormatText:
		bw := bufio.NewWriter(w)
		for _, e := range entries {
			fmt.Fprintf(bw, "%d\t%s\t%s\t%s\n", e.Hash, flhash.FormatHex(e.Hash), e.Kind, e.Nickname)
		}
		return bw.Flush()

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records(entries))

	case FormatCBOR:
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return err
		}
		return em.NewEncoder(w).Encode(records(entries))

	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func records(entries []Entry) []Record {
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record()
	}
	return out
}
