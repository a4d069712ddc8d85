// Package output renders a compiled MULTIX byte vector into the forms an
// external host needs to consume: a raw binary file, or the uppercase
// space-separated hex dump used on the console surface (§6).
package output

import (
	"fmt"
	"os"
	"strings"
)

// HexDump renders data as uppercase 2-hex-digit bytes, space separated,
// with a line break every bytesPerLine bytes. This is the observable
// console form described in §6.
func HexDump(data []byte, bytesPerLine int) string {
	if bytesPerLine <= 0 {
		bytesPerLine = 16
	}

	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			if i%bytesPerLine == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// WriteBinary writes the raw byte vector to path.
func WriteBinary(path string, data []byte) error {
	return os.WriteFile(path, data, 0644) // #nosec G306 -- assembler output is not sensitive
}

// WriteHexFile writes the HexDump rendering of data to path, bytesPerLine
// per line, with a trailing newline.
func WriteHexFile(path string, data []byte, bytesPerLine int) error {
	dump := HexDump(data, bytesPerLine)
	return os.WriteFile(path, []byte(dump+"\n"), 0644) // #nosec G306
}

// WriteTrace writes the assembly trace, one entry per line, to path.
func WriteTrace(path string, trace []string) error {
	return os.WriteFile(path, []byte(strings.Join(trace, "\n")+"\n"), 0644) // #nosec G306
}
