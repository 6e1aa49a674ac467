package synapsai

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

// MediaKind tags the variant held by a Media value.
type MediaKind int

const (
	mediaNone MediaKind = iota
	MediaFilePath
	MediaBytes
	MediaBase64
	MediaURL
	MediaBatch
)

func (k MediaKind) String() string {
	switch k {
	case MediaFilePath:
		return "file_path"
	case MediaBytes:
		return "bytes"
	case MediaBase64:
		return "base64"
	case MediaURL:
		return "url"
	case MediaBatch:
		return "batch"
	default:
		return "none"
	}
}

// Media is an image, audio or video input. Build one with FilePath, Bytes,
// Base64, URL or Batch. File contents and raw bytes are sent base64-encoded;
// URLs and base64 strings are sent as given.
type Media struct {
	kind  MediaKind
	text  string
	data  []byte
	items []Media
}

// FilePath refers to a local file read when the request is built.
func FilePath(path string) Media { return Media{kind: MediaFilePath, text: path} }

// Bytes holds raw file contents.
func Bytes(data []byte) Media { return Media{kind: MediaBytes, data: data} }

// Base64 holds contents that are already base64-encoded.
func Base64(s string) Media { return Media{kind: MediaBase64, text: s} }

// URL refers to a remote resource fetched by the server.
func URL(u string) Media { return Media{kind: MediaURL, text: u} }

// Batch groups several inputs into one request.
func Batch(items ...Media) Media { return Media{kind: MediaBatch, items: items} }

// Kind reports the variant.
func (m Media) Kind() MediaKind { return m.kind }

// IsZero reports whether m was never set.
func (m Media) IsZero() bool { return m.kind == mediaNone }

// resolveMedia turns m into its wire value: a string for single inputs and
// a list for batches. Errors are KindValidation.
func resolveMedia(m Media) (any, error) {
	v, err := resolve(m)
	if err != nil {
		return nil, normalize.ValidationError(err)
	}
	return v, nil
}

func resolve(m Media) (any, error) {
	switch m.kind {
	case MediaFilePath:
		data, err := os.ReadFile(m.text)
		if err != nil {
			return nil, fmt.Errorf("read media file: %w", err)
		}
		return base64.StdEncoding.EncodeToString(data), nil
	case MediaBytes:
		return base64.StdEncoding.EncodeToString(m.data), nil
	case MediaBase64, MediaURL:
		return m.text, nil
	case MediaBatch:
		out := make([]any, 0, len(m.items))
		for i, item := range m.items {
			if item.kind == MediaBatch {
				return nil, fmt.Errorf("batch item %d: %w", i, core.ErrUnsupportedMedia)
			}
			v, err := resolve(item)
			if err != nil {
				return nil, fmt.Errorf("batch item %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	case mediaNone:
		return nil, core.ErrMediaRequired
	default:
		return nil, core.ErrUnsupportedMedia
	}
}

// resolveOptionalMedia resolves m unless it is nil.
func resolveOptionalMedia(m *Media) (any, error) {
	if m == nil || m.IsZero() {
		return nil, nil
	}
	return resolveMedia(*m)
}
