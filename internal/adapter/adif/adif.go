// Package adif reads ADIF (.adi) logs into QSO records.
//
// An ADI file is a sequence of data specifiers, <NAME:LENGTH[:TYPE]>VALUE,
// grouped into records by <EOR>. When the file does not start with '<', the
// text up to <EOH> is a free-form header and is skipped. LENGTH counts bytes
// of VALUE; names are case-insensitive.
package adif

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/qso-mapper/internal/domain"
)

// ReadFile parses the ADIF log at path.
func ReadFile(path string) ([]domain.QSO, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open adif log: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads every complete record from r. Fields after the last <EOR> are
// ignored.
func Parse(r io.Reader) ([]domain.QSO, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read adif log: %w", err)
	}

	pos := 0
	if len(data) > 0 && data[0] != '<' {
		if end := indexFold(data, "<EOH>"); end >= 0 {
			pos = end + len("<EOH>")
		}
	}

	var qsos []domain.QSO
	fields := map[string]string{}
	for {
		lt := bytes.IndexByte(data[pos:], '<')
		if lt < 0 {
			break
		}
		lt += pos
		gt := bytes.IndexByte(data[lt:], '>')
		if gt < 0 {
			return nil, fmt.Errorf("unterminated tag at byte %d", lt)
		}
		gt += lt

		tag := strings.Split(string(data[lt+1:gt]), ":")
		name := strings.ToUpper(strings.TrimSpace(tag[0]))
		pos = gt + 1

		if len(tag) == 1 {
			switch name {
			case "EOR":
				if len(fields) > 0 {
					qsos = append(qsos, domain.NewQSO(fields))
				}
				fields = map[string]string{}
			case "EOH":
				fields = map[string]string{}
			}
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(tag[1]))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("field %s at byte %d: invalid length %q", name, lt, tag[1])
		}
		if n > len(data)-pos {
			return nil, fmt.Errorf("field %s at byte %d: length %d runs past end of input", name, lt, n)
		}
		fields[name] = string(data[pos : pos+n])
		pos += n
	}

	return qsos, nil
}

// indexFold is bytes.Index with ASCII case folding.
func indexFold(data []byte, sep string) int {
	for i := 0; i+len(sep) <= len(data); i++ {
		if bytes.EqualFold(data[i:i+len(sep)], []byte(sep)) {
			return i
		}
	}
	return -1
}
