package generator

import (
	"fmt"
	"io"
	"strings"
)

var usageSteps = []string{
	"Imprima este QR Code",
	"Escaneie com a câmera do celular",
	"Abre direto na página de download!",
}

// Report prints the path, target URL, pixel size and usage steps of res.
func Report(w io.Writer, res *Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ QR Code gerado: %s\n", res.Path)
	fmt.Fprintf(&b, "📱 Aponta para: %s\n", res.URL)
	fmt.Fprintf(&b, "\n📐 Tamanho: %dx%d pixels\n", res.Width, res.Height)
	b.WriteString("\n💡 Como usar:\n")
	for i, step := range usageSteps {
		fmt.Fprintf(&b, "   %d. %s\n", i+1, step)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
