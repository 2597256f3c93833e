// Package regionio serializes region lists to and from on-disk region
// file formats.
//
// Formats plug into a registry of reader, writer and identifier hooks
// keyed by format name; each codec registers itself with the Default
// registry from its init function. Callers either name a format
// explicitly or let Identify sniff one from the filename and leading
// bytes.
package regionio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/astrokit/regions/internal/region"
)

// ErrUnknownFormat is returned when no registered codec matches the
// requested or sniffed format.
var ErrUnknownFormat = errors.New("unknown region format")

// List is the unit of (de)serialization: the pixel and sky circles read
// from or written to one region file.
type List struct {
	Pixel []*region.PixelCircle
	Sky   []*region.SkyCircle
}

// Len returns the total number of regions in the list.
func (l *List) Len() int {
	return len(l.Pixel) + len(l.Sky)
}

type (
	// Reader deserializes a region list from a stream.
	Reader func(io.Reader) (*List, error)
	// Writer serializes a region list to a stream.
	Writer func(io.Writer, *List) error
	// Identifier reports whether a file (by name and leading bytes)
	// belongs to a format.
	Identifier func(name string, data []byte) bool
)

// Registry maps format names to their codec hooks. The zero value is
// not usable; call NewRegistry.
type Registry struct {
	mu          sync.RWMutex
	readers     map[string]Reader
	writers     map[string]Writer
	identifiers map[string]Identifier
}

func NewRegistry() *Registry {
	return &Registry{
		readers:     make(map[string]Reader),
		writers:     make(map[string]Writer),
		identifiers: make(map[string]Identifier),
	}
}

// Default is the process-wide registry that codecs register with at
// init time.
var Default = NewRegistry()

func (r *Registry) RegisterReader(format string, fn Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers[format] = fn
}

func (r *Registry) RegisterWriter(format string, fn Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writers[format] = fn
}

func (r *Registry) RegisterIdentifier(format string, fn Identifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identifiers[format] = fn
}

// Formats returns the sorted names of all formats with a reader or a
// writer registered.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.readers)+len(r.writers))
	for f := range r.readers {
		seen[f] = struct{}{}
	}
	for f := range r.writers {
		seen[f] = struct{}{}
	}
	formats := make([]string, 0, len(seen))
	for f := range seen {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Identify runs the registered identifiers, in stable name order,
// against the filename and leading bytes and returns the first format
// that claims the file.
func (r *Registry) Identify(name string, data []byte) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.identifiers))
	for f := range r.identifiers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		if r.identifiers[f](name, data) {
			return f, nil
		}
	}
	return "", fmt.Errorf("identify %q: %w", name, ErrUnknownFormat)
}

// Read deserializes a region list from src. An empty format triggers
// identification from name and the stream contents.
func (r *Registry) Read(ctx context.Context, format, name string, src io.Reader) (*List, error) {
	if format == "" {
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, fmt.Errorf("read region data: %w", err)
		}
		format, err = r.Identify(name, data)
		if err != nil {
			return nil, err
		}
		src = bytes.NewReader(data)
	}

	r.mu.RLock()
	read, ok := r.readers[format]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("read format %q: %w", format, ErrUnknownFormat)
	}

	list, err := read(src)
	if err != nil {
		return nil, fmt.Errorf("read %s regions: %w", format, err)
	}
	regionsRead.Add(ctx, int64(list.Len()),
		metric.WithAttributes(attribute.String("format", format)))
	return list, nil
}

// Write serializes a region list to dst in the given format.
func (r *Registry) Write(ctx context.Context, format string, dst io.Writer, list *List) error {
	r.mu.RLock()
	write, ok := r.writers[format]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("write format %q: %w", format, ErrUnknownFormat)
	}

	if err := write(dst, list); err != nil {
		return fmt.Errorf("write %s regions: %w", format, err)
	}
	regionsWritten.Add(ctx, int64(list.Len()),
		metric.WithAttributes(attribute.String("format", format)))
	return nil
}

// Read deserializes from the Default registry.
func Read(ctx context.Context, format, name string, src io.Reader) (*List, error) {
	return Default.Read(ctx, format, name, src)
}

// Write serializes through the Default registry.
func Write(ctx context.Context, format string, dst io.Writer, list *List) error {
	return Default.Write(ctx, format, dst, list)
}
