package recordstore

import "fmt"

// Snapshot copies every document of src into dst and returns the copied names.
func Snapshot(src, dst Backend) ([]string, error) {
	names, err := src.DocumentNames()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	for _, name := range names {
		data, err := src.ReadDocument(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := dst.WriteDocument(name, data); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	return names, nil
}
