package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
)

// BenchmarkScanOutput benchmarks scanning a real output directory
func BenchmarkScanOutput(b *testing.B) {
	tempDir := b.TempDir()

	for i := 1; i <= 50; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("20250110_%03d_part.sql", i))
		content := "SELECT * FROM users WHERE id = 1;\n-- Comment\n/* Multi-line */\nINSERT INTO logs VALUES ('test');\n"
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			b.Fatal(err)
		}
	}

	fileScanner := NewScanner(checksum.New(), filesystem.NewOSFileSystem())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fileScanner.ScanOutput(tempDir, "20250110"); err != nil {
			b.Fatal(err)
		}
	}
}
