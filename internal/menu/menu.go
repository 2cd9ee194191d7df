// Package menu implements the interactive text interface over the
// resource accessor: a numbered main loop offering file operations,
// URL operations and exit.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"netfile/internal/resource"
)

const (
	wideRuler   = "=================================================="
	narrowRuler = "----------------------------"
	frameRuler  = "========================================"
	// fetched pages are previewed, not dumped in full
	previewRunes = 1000
)

// Menu drives the prompt loop. Input and output are injected so tests
// can script a whole session.
type Menu struct {
	in   *bufio.Scanner
	out  io.Writer
	opts []resource.Option
}

func New(in io.Reader, out io.Writer, opts ...resource.Option) *Menu {
	return &Menu{in: bufio.NewScanner(in), out: out, opts: opts}
}

// Run executes the main loop until the user selects exit or the input
// stream ends.
func (m *Menu) Run() {
	m.printf("%s\n", wideRuler)
	m.printf("FILE AND URL UTILITY\n")
	m.printf("%s\n", wideRuler)

	for {
		m.printMainMenu()
		choice, ok := m.readLine("\nselect an action (1-3): ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			m.fileOperations()
		case "2":
			m.urlOperations()
		case "3":
			m.printf("\ngoodbye!\n")
			return
		default:
			m.printf("\nerror: enter a number between 1 and 3\n")
		}
		if _, ok := m.readLine("\npress Enter to continue..."); !ok {
			return
		}
	}
}

func (m *Menu) printMainMenu() {
	m.printf("\n%s\n", wideRuler)
	m.printf("1. file operations (read/write)\n")
	m.printf("2. URL operations\n")
	m.printf("3. exit\n")
	m.printf("%s\n", wideRuler)
}

func (m *Menu) fileOperations() {
	m.printf("\n%s\nFILE OPERATIONS\n%s\n", narrowRuler, narrowRuler)

	path, ok := m.readNonEmpty("enter a file path: ", "error: the file path cannot be empty")
	if !ok {
		return
	}

	m.printf("\nselect a mode:\n")
	m.printf("1. read the file\n")
	m.printf("2. write to the file (overwrite)\n")
	m.printf("3. append to the file\n")

	choice, ok := m.readLine("enter a mode number (1-3): ")
	if !ok {
		return
	}
	mode, found := map[string]string{"1": "read", "2": "write", "3": "append"}[choice]
	if !found {
		m.printf("error: invalid mode selection\n")
		return
	}

	res, err := resource.New(path, mode, m.opts...)
	if err != nil {
		m.reportError(err)
		return
	}

	if mode == "read" {
		content, err := res.Read()
		if err != nil {
			m.reportError(err)
			return
		}
		m.printf("\ncontents of %q:\n%s\n%s\n%s\n", path, frameRuler, content, frameRuler)
		return
	}

	verb := "write"
	if mode == "append" {
		verb = "append"
	}
	content, ok := m.collectLines(verb)
	if !ok {
		return
	}

	if mode == "write" && fileExists(path) {
		if !m.confirm(fmt.Sprintf("\nthe file %q already exists. overwrite? (y/N): ", path)) {
			m.printf("operation cancelled\n")
			return
		}
	}

	if err := res.Write(content); err != nil {
		m.reportError(err)
		return
	}
	done := "written"
	if mode == "append" {
		done = "appended"
	}
	m.printf("\nthe content was %s to %q\n", done, path)
}

// collectLines gathers multi-line input terminated by a blank line or
// the literal token END.
func (m *Menu) collectLines(verb string) (string, bool) {
	m.printf("\nenter the content to %s:\n", verb)
	m.printf("(finish with an empty line or 'END' on its own line)\n%s\n", frameRuler)

	var lines []string
	for n := 1; ; n++ {
		line, ok := m.readLine(fmt.Sprintf("line %d: ", n))
		if !ok {
			return "", false
		}
		if line == "" || strings.EqualFold(line, "END") {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), true
}

func (m *Menu) urlOperations() {
	m.printf("\n%s\nURL OPERATIONS\n%s\n", narrowRuler, narrowRuler)

	url, ok := m.readNonEmpty("enter a URL (e.g. https://example.com): ",
		"error: the URL cannot be empty")
	if !ok {
		return
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
		m.printf("using URL: %s\n", url)
	}

	m.printf("checking URL availability...\n")
	res, err := resource.New(url, "url", m.opts...)
	if err == nil {
		if status := res.ProbeStatus(); status != http.StatusOK {
			m.printf("the URL responded with status %d\n", status)
		} else {
			m.printf("the URL is reachable\n")
		}
	} else {
		if resource.KindOf(err) != resource.KindConnectivity {
			m.reportError(err)
			return
		}
		m.printf("the URL may be unreachable: %v\n", err)
		if !m.confirm("continue anyway? (y/N): ") {
			return
		}
		if res, err = resource.New(url, "url", m.opts...); err != nil {
			m.reportError(err)
			return
		}
	}

	m.printf("\nselect an operation:\n")
	m.printf("1. read the page contents\n")
	m.printf("2. count the links on the page\n")
	m.printf("3. save the page contents to a file\n")

	choice, ok := m.readLine("enter an operation number (1-3): ")
	if !ok {
		return
	}
	switch choice {
	case "1":
		m.readPage(res, url)
	case "2":
		count, err := res.CountLinks()
		if err != nil {
			m.reportError(err)
			return
		}
		m.printf("\nfound %d URLs on %q\n", count, url)
	case "3":
		m.savePage(res, url)
	default:
		m.printf("\nerror: invalid operation selection\n")
	}
}

func (m *Menu) readPage(res *resource.Resource, url string) {
	content, err := res.FetchURL()
	if err != nil {
		m.reportError(err)
		return
	}

	preview := content
	suffix := ""
	if runes := []rune(content); len(runes) > previewRunes {
		preview = string(runes[:previewRunes])
		suffix = "..."
	}
	m.printf("\ncontents of %q:\n%s\n%s%s\n%s\n", url, wideRuler, preview, suffix, wideRuler)
	m.printf("total size: %d characters\n", utf8.RuneCountInString(content))
}

func (m *Menu) savePage(res *resource.Resource, url string) {
	var dest string
	for {
		path, ok := m.readLine("enter a destination path: ")
		if !ok {
			return
		}
		if path == "" {
			dest = defaultSaveName(url)
			m.printf("using the default file name: %s\n", dest)
			break
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			m.printf("error: the path is a directory, not a file\n")
			continue
		}
		if fileExists(path) {
			if !m.confirm(fmt.Sprintf("the file %q already exists. overwrite? (y/N): ", path)) {
				m.printf("enter a different path\n")
				continue
			}
		}
		dest = path
		break
	}

	if err := res.SaveTo(dest); err != nil {
		m.reportError(err)
		return
	}
	var size int64
	if info, err := os.Stat(dest); err == nil {
		size = info.Size()
	}
	m.printf("\nthe page was saved to %q (%d bytes)\n", dest, size)
}

// defaultSaveName derives a file name from the URL's host, e.g.
// https://example.com/x -> example_com_content.html.
func defaultSaveName(url string) string {
	host := url
	if i := strings.Index(host, "//"); i >= 0 {
		host = host[i+2:]
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return strings.ReplaceAll(host, ".", "_") + "_content.html"
}

// reportError prints a human-readable message plus a remedy hint for
// the failure kind; stack traces never reach the user.
func (m *Menu) reportError(err error) {
	m.printf("\nerror: %v\n", err)
	switch resource.KindOf(err) {
	case resource.KindNotFound:
		m.printf("check that the path is correct\n")
	case resource.KindPermission:
		m.printf("pick a different target or rerun with sufficient permissions\n")
	case resource.KindConnectivity:
		m.printf("check your network connection, the URL spelling and that the site is up\n")
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// readLine prompts and returns the next input line, trimmed. ok is
// false once the input stream is exhausted.
func (m *Menu) readLine(prompt string) (line string, ok bool) {
	m.printf("%s", prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) readNonEmpty(prompt, complaint string) (string, bool) {
	for {
		line, ok := m.readLine(prompt)
		if !ok {
			return "", false
		}
		if line != "" {
			return line, true
		}
		m.printf("%s\n", complaint)
	}
}

func (m *Menu) confirm(prompt string) bool {
	answer, ok := m.readLine(prompt)
	return ok && strings.EqualFold(answer, "y")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
