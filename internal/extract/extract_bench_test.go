package extract

import (
	"fmt"
	"strings"
	"testing"
)

func BenchmarkFromHTML(b *testing.B) {
	small := []byte("<html><head><title>t</title></head><body><main><p>a</p></main></body></html>")
	large := makeReportHTML(200)
	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(small)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(large)
		}
	})
}

func makeReportHTML(sections int) []byte {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 1; i <= sections; i++ {
		fmt.Fprintf(&sb, "<h2>%d. SECCIÓN</h2><p>Contenido del capítulo %d.</p>", i, i)
	}
	sb.WriteString("</body></html>")
	return []byte(sb.String())
}
