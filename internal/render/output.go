package render

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Output is a buffered destination for rendered rows.
type Output struct {
	file   *os.File
	writer *bufio.Writer
	owned  bool
}

// OpenOutput opens path for writing, truncating it. "" and "-" mean stdout.
func OpenOutput(path string) (*Output, error) {
	if path == "" || path == "-" {
		return &Output{file: os.Stdout, writer: bufio.NewWriter(os.Stdout)}, nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return &Output{file: file, writer: bufio.NewWriter(file), owned: true}, nil
}

func (o *Output) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

// Close flushes buffered data and closes the file unless it is stdout.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	if err := o.writer.Flush(); err != nil {
		if o.owned {
			o.file.Close()
		}
		return err
	}
	if o.owned {
		return o.file.Close()
	}
	return nil
}
