package connector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrAlreadyInitialized is returned by a bootstrap when the native client
// was already loaded in this process.
var ErrAlreadyInitialized = errors.New("native client already initialized")

// alreadyInitializedCode is the Oracle client error code for the same
// condition. Bootstraps wrapping other client loaders may surface it.
const alreadyInitializedCode = "DPY-INIT-002"

// Bootstrap loads the native client libraries found in libDir.
type Bootstrap func(libDir string) error

// NativeClient owns the process-wide native client initialization. At most
// one attempt runs at a time; concurrent callers wait for it and observe
// its outcome.
type NativeClient struct {
	mu          sync.Mutex
	bootstrap   Bootstrap
	initialized bool
	libDir      string
}

// DefaultNativeClient is the process-wide instance used by Oracle
// connectors unless WithNativeClient says otherwise.
var DefaultNativeClient = NewNativeClient(ociLoader.load)

// NewNativeClient returns an uninitialized manager that loads the client
// with bootstrap.
func NewNativeClient(bootstrap Bootstrap) *NativeClient {
	return &NativeClient{bootstrap: bootstrap}
}

// Init validates libDir and runs the bootstrap once. It returns
// immediately if a previous call succeeded.
func (nc *NativeClient) Init(libDir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	nc.mu.Lock()
	defer nc.mu.Unlock()

	if nc.initialized {
		return nil
	}

	if libDir == "" {
		return invalidConfig("oracle", "native client directory is empty")
	}
	info, err := os.Stat(libDir)
	if err != nil || !info.IsDir() {
		return invalidConfig("oracle", fmt.Sprintf("native client directory %q is not valid or does not exist", libDir))
	}

	logger.Info("initializing native client", zap.String("lib_dir", libDir))
	if err := nc.bootstrap(libDir); err != nil {
		if !isAlreadyInitialized(err) {
			logger.Error("native client initialization failed", zap.String("lib_dir", libDir), zap.Error(err))
			return newError(KindNativeClientInit, "oracle", "initialize",
				"could not initialize native client from "+libDir, err)
		}
		logger.Warn("native client was already initialized", zap.Error(err))
	} else {
		logger.Info("native client initialized", zap.String("lib_dir", libDir))
	}

	nc.initialized = true
	nc.libDir = libDir
	return nil
}

// Initialized reports whether an initialization has succeeded.
func (nc *NativeClient) Initialized() bool {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.initialized
}

// LibDir returns the directory of the successful initialization, if any.
func (nc *NativeClient) LibDir() string {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.libDir
}

// Reset forgets a previous initialization. The libraries stay loaded; a
// later Init sees the bootstrap report them as already initialized.
func (nc *NativeClient) Reset() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.initialized = false
	nc.libDir = ""
}

func isAlreadyInitialized(err error) bool {
	return errors.Is(err, ErrAlreadyInitialized) || strings.Contains(err.Error(), alreadyInitializedCode)
}

// ociLibraryPatterns are the client library names of Linux, macOS and
// Windows Instant Client installs.
var ociLibraryPatterns = []string{"libclntsh.so*", "libclntsh.dylib*", "oci.dll"}

// ociLoader records the Instant Client directory godror is pointed at. The
// library itself is loaded by the driver on first connect through the
// libDir connect parameter, and only one directory can be loaded per
// process.
var ociLoader = &nativeLibrary{patterns: ociLibraryPatterns}

type nativeLibrary struct {
	mu       sync.Mutex
	patterns []string
	dir      string
}

func (l *nativeLibrary) load(libDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dir != "" {
		return fmt.Errorf("%w from %s", ErrAlreadyInitialized, l.dir)
	}
	for _, pattern := range l.patterns {
		matches, err := filepath.Glob(filepath.Join(libDir, pattern))
		if err != nil {
			return err
		}
		if len(matches) > 0 {
			l.dir = libDir
			return nil
		}
	}
	return fmt.Errorf("no Oracle client library (%s) found in %s",
		strings.Join(l.patterns, ", "), libDir)
}
