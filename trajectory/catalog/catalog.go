package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Catalog is an immutable, id-keyed set of trajectory documents.
type Catalog struct {
	entries map[string]Document
}

// New validates the documents and indexes them by id. Duplicate ids are an
// authoring error.
func New(docs []Document) (*Catalog, error) {
	entries := make(map[string]Document, len(docs))
	for _, doc := range docs {
		if err := Validate(doc); err != nil {
			return nil, fmt.Errorf("catalog: document %q: %w", doc.ID, err)
		}
		if _, exists := entries[doc.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate id %q", doc.ID)
		}
		entries[doc.ID] = doc
	}
	return &Catalog{entries: entries}, nil
}

// Load reads every .json document under root in fsys.
func Load(fsys fs.FS, root string) (*Catalog, error) {
	if root == "" {
		root = "."
	}
	var docs []Document
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".json") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode %s: %w", p, err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return New(docs)
}

// Get returns the document for id.
func (c *Catalog) Get(id string) (Document, bool) {
	doc, ok := c.entries[id]
	return doc, ok
}

// IDs returns the registered ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of documents.
func (c *Catalog) Len() int {
	return len(c.entries)
}
