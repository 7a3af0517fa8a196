// cypheri-tokens - token dump harness for the Cypheri front-end.
//
// Reads Cypheri source from the file named by the first non-flag argument,
// or from stdin, and prints one line per token. A syntax error is printed
// instead of the stream. The exit code is 0 in both cases; this is a test
// aid, not the product interface.
package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/szdytom/cypheri/internal/lexer"
	"github.com/szdytom/cypheri/internal/names"
	"github.com/szdytom/cypheri/internal/token"
)

const usage = `usage: cypheri-tokens [-yaml] [file]

Tokenizes Cypheri source from file (or stdin) and prints the token stream.

  -yaml       emit the token stream as YAML
  -h, --help  show this help message
`

func main() {
	asYAML := false
	var path string
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-yaml":
			asYAML = true
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			if path == "" {
				path = arg
			}
		}
	}

	src, err := readSource(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tab := names.NewTable()
	res := lexer.Tokenize(src, tab)
	if res.Err != nil {
		fmt.Printf("Error:\n%s\n", res.Err)
		return
	}

	if asYAML {
		dumpYAML(res, tab)
		return
	}
	dump(res, tab)
}

func readSource(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func dump(res token.TokenizeResult, tab *names.Table) {
	for _, tk := range res.Tokens {
		fmt.Printf("%s:\t{ type=%q", tk.Pos, tk.Type.String())
		switch tk.Type {
		case token.INTEGER:
			fmt.Printf(", value=%d", tk.Integer())
		case token.NUMBER:
			fmt.Printf(", value=%v", tk.Number())
		case token.STRING:
			fmt.Printf(", value=%q", res.StrLits[tk.StrIndex()])
		case token.IDENT:
			fmt.Printf(", value=%q(%d)", tab.Name(tk.Name()), tk.Name())
		}
		fmt.Println(" }")
	}
}

// tokenDump is the YAML shape of one token.
type tokenDump struct {
	Pos   string `yaml:"pos"`
	Type  string `yaml:"type"`
	Value any    `yaml:"value,omitempty"`
}

func dumpYAML(res token.TokenizeResult, tab *names.Table) {
	out := make([]tokenDump, 0, len(res.Tokens))
	for _, tk := range res.Tokens {
		d := tokenDump{Pos: tk.Pos.String(), Type: tk.Type.String()}
		switch tk.Type {
		case token.INTEGER:
			d.Value = tk.Integer()
		case token.NUMBER:
			d.Value = tk.Number()
		case token.STRING:
			d.Value = res.StrLits[tk.StrIndex()]
		case token.IDENT:
			d.Value = tab.Name(tk.Name())
		}
		out = append(out, d)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	enc.Close()
}
