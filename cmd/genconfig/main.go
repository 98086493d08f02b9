// Command genconfig writes config.default.toml from config.ExampleConfig,
// annotated with config.ConfigDocs.
//
// Run through go generate in internal/config.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"tools.zach/dev/tarkovtime/internal/atomicfile"
	"tools.zach/dev/tarkovtime/internal/config"
)

func main() {
	// go generate runs from internal/config; the repo root embeds the file.
	out := flag.String("out", "../../config.default.toml", "output path")
	flag.Parse()

	if err := generate(*out); err != nil {
		fmt.Fprintf(os.Stderr, "genconfig: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

// generate renders the example config and replaces out with it. The embedded
// copy is read at build time, so a half-written file must never be visible.
func generate(out string) error {
	text, err := render(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// render encodes cfg and interleaves the documentation comments.
func render(cfg *config.Config, docs map[string]config.FieldDoc) (string, error) {
	var raw bytes.Buffer
	if err := toml.NewEncoder(&raw).Encode(cfg); err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	g := &generator{docs: docs, emitted: map[string]bool{}}
	g.out = append(g.out,
		"# ///////////////////////////////////////////////",
		"# Tarkov Time Configuration",
		"# ///////////////////////////////////////////////",
		"",
	)

	for _, line := range strings.Split(raw.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[["):
			g.section(strings.Trim(trimmed, "[] "), trimmed)
		case !strings.Contains(trimmed, "=") || strings.HasPrefix(trimmed, "#"):
			g.out = append(g.out, trimmed)
		default:
			g.field(trimmed)
		}
	}
	g.injectOmitted()

	return strings.TrimRight(strings.Join(g.out, "\n"), "\n") + "\n", nil
}

type generator struct {
	docs    map[string]config.FieldDoc
	out     []string
	stack   []string
	emitted map[string]bool
}

func (g *generator) section(name, header string) {
	g.injectOmitted()
	g.stack = parseSectionPath(name)

	g.out = append(g.out, "", fmt.Sprintf("# ///// %s /////", sectionName(name)), "")
	if doc, ok := g.docs[name]; ok {
		g.comment(doc.Comment)
	}
	g.out = append(g.out, header)
}

func (g *generator) field(line string) {
	key := strings.TrimSpace(strings.SplitN(line, "=", 2)[0])
	path := key
	if len(g.stack) > 0 {
		path = strings.Join(g.stack, ".") + "." + key
	}
	g.emitted[path] = true

	doc := g.docs[path]
	g.comment(doc.Comment)
	g.out = append(g.out, line)
	for _, alt := range doc.Alternatives {
		g.out = append(g.out, "# "+alt)
	}
}

func (g *generator) comment(text string) {
	if text == "" {
		return
	}
	for _, cl := range strings.Split(text, "\n") {
		g.out = append(g.out, "# "+cl)
	}
}

// injectOmitted writes documented keys of the current section that the
// encoder skipped (omitempty zero values) as comments, sorted by key.
func (g *generator) injectOmitted() {
	if len(g.stack) == 0 {
		return
	}
	prefix := strings.Join(g.stack, ".") + "."

	var omitted []string
	for path := range g.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, ".") || g.emitted[path] {
			continue
		}
		omitted = append(omitted, path)
	}
	sort.Strings(omitted)

	for _, path := range omitted {
		doc := g.docs[path]
		g.out = append(g.out, "")
		g.comment(doc.Comment)
		for _, alt := range doc.Alternatives {
			g.out = append(g.out, "# "+alt)
		}
		g.emitted[path] = true
	}
}

// parseSectionPath splits "a.b" into ["a", "b"].
func parseSectionPath(section string) []string {
	return strings.Split(section, ".")
}

// sectionName title-cases the last segment of a section path.
func sectionName(section string) string {
	parts := strings.Split(section, ".")
	last := parts[len(parts)-1]
	if last == "" {
		return ""
	}
	return strings.ToUpper(last[:1]) + last[1:]
}
