package runtimelib

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

// ErrNoRuntimeIndex is returned by Detect when a Java home has none of
// lib/rt.jar, jmods/ or lib/src.zip.
var ErrNoRuntimeIndex = errors.New("no runtime class listing found")

var jmodMagic = []byte{'J', 'M', 0x01, 0x00}

// FindJavaHome returns $JAVA_HOME, or asks the java launcher on the PATH
// for its java.home property.
func FindJavaHome() (string, error) {
	if jh := os.Getenv("JAVA_HOME"); jh != "" {
		return jh, nil
	}

	cmd := exec.Command("java", "-XshowSettings:properties", "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("run java: %w", err)
	}

	re := regexp.MustCompile(`java\.home\s*=\s*(.+)`)
	matches := re.FindSubmatch(output)
	if len(matches) < 2 {
		return "", fmt.Errorf("could not find java.home in output")
	}

	return strings.TrimSpace(string(matches[1])), nil
}

// Detect indexes the runtime classes of the JDK at javaHome, preferring
// lib/rt.jar (Java 8 and older), then jmods/ (Java 9+ JDKs), then
// lib/src.zip.
func Detect(javaHome string) (*Index, error) {
	rtJar := filepath.Join(javaHome, "lib", "rt.jar")
	if _, err := os.Stat(rtJar); err == nil {
		return LoadJar(rtJar)
	}
	// a JRE inside a Java 8 JDK
	rtJar = filepath.Join(javaHome, "jre", "lib", "rt.jar")
	if _, err := os.Stat(rtJar); err == nil {
		return LoadJar(rtJar)
	}

	jmods := filepath.Join(javaHome, "jmods")
	if info, err := os.Stat(jmods); err == nil && info.IsDir() {
		return LoadJmods(jmods)
	}

	for _, srcZip := range []string{filepath.Join(javaHome, "lib", "src.zip"), filepath.Join(javaHome, "src.zip")} {
		if _, err := os.Stat(srcZip); err == nil {
			return LoadSrcZip(srcZip)
		}
	}

	return nil, fmt.Errorf("%s: %w", javaHome, ErrNoRuntimeIndex)
}

// LoadJar indexes every class file in a jar that the platform puts on the
// boot class path, such as rt.jar or android.jar.
func LoadJar(path string) (*Index, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	ix := newIndex(path)
	for _, f := range r.File {
		if name, ok := classEntry(f, ""); ok {
			ix.add(name)
		}
	}
	log.Infof("indexed %d runtime classes from %s", ix.Len(), path)
	return ix, nil
}

// LoadJmods indexes the classes/ entries of every .jmod file in dir. The
// files are read concurrently.
func LoadJmods(dir string) (*Index, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jmod"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: no .jmod files: %w", dir, ErrNoRuntimeIndex)
	}

	p := pool.NewWithResults[[]string]().WithErrors().WithMaxGoroutines(runtime.NumCPU())
	for _, path := range paths {
		p.Go(func() ([]string, error) {
			return readJmod(path)
		})
	}
	lists, err := p.Wait()
	if err != nil {
		return nil, err
	}

	ix := newIndex(dir)
	for _, names := range lists {
		for _, name := range names {
			ix.add(name)
		}
	}
	log.Infof("indexed %d runtime classes from %d modules in %s", ix.Len(), len(paths), dir)
	return ix, nil
}

func readJmod(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !bytes.HasPrefix(data, jmodMagic) {
		return nil, fmt.Errorf("%s: not a jmod file", path)
	}
	body := data[len(jmodMagic):]
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var names []string
	for _, f := range zr.File {
		if name, ok := classEntry(f, "classes/"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// LoadSrcZip indexes the top-level classes of a JDK src.zip. Both the
// modular layout (java.base/java/lang/String.java) and the flat one
// (java/lang/String.java) are understood.
func LoadSrcZip(path string) (*Index, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	ix := newIndex(path)
	ix.topLevelOnly = true
	for _, f := range r.File {
		name := f.Name
		if f.FileInfo().IsDir() || !strings.HasSuffix(name, ".java") {
			continue
		}
		// module directories are the only path segments containing dots
		if slash := strings.IndexByte(name, '/'); slash > 0 && strings.Contains(name[:slash], ".") {
			name = name[slash+1:]
		}
		name = strings.TrimSuffix(name, ".java")
		if isInfoFile(name) {
			continue
		}
		ix.add(name)
	}
	log.Infof("indexed %d runtime sources from %s", ix.Len(), path)
	return ix, nil
}

func classEntry(f *zip.File, prefix string) (string, bool) {
	if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) || !strings.HasSuffix(f.Name, ".class") {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(f.Name, prefix), ".class")
	if isInfoFile(name) {
		return "", false
	}
	return name, true
}

func isInfoFile(name string) bool {
	base := name[strings.LastIndexByte(name, '/')+1:]
	return base == "module-info" || base == "package-info"
}
