// # csvpretty: Aligned Tables from Delimited Text
//
// csvpretty reads CSV-like input (comma, semicolon, pipe or tab separated,
// optionally quoted, with embedded newlines) and renders it as an aligned,
// bordered text table that accounts for wide and zero-width Unicode characters.
//
// # Features
//
// - Single-pass Tokenizer with separator auto-detection, quote doubling, and left/right trimming of unquoted fields.
// - Row Store of chained fixed-capacity buckets; stored rows never move.
// - Renderer with three border levels, ASCII or box-drawing glyphs, numeric right alignment, header detection, and multi-line cells.
// - CSV Writer to re-emit the tokenized rows in normalized form.
// - Config loading from TOML or YAML files.
//
// # Getting Started
//
//	cfg := csvpretty.DefaultConfig()
//	tbl, err := cfg.NewTokenizer(os.Stdin).Tokenize()
//	if err != nil {
//		return err
//	}
//	return csvpretty.NewRenderer(os.Stdout, cfg).Render(tbl)
package csvpretty
