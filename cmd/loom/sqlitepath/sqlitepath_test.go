package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		origHome   string
		origXDG    string
		origLoomDB string
		origLoomSQ string
		origCwd    string
	)

	BeforeEach(func() {
		origHome = os.Getenv("HOME")
		origXDG = os.Getenv("XDG_DATA_HOME")
		origLoomDB = os.Getenv("LOOM_DB")
		origLoomSQ = os.Getenv("LOOM_SQLITE")
		var err error
		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.Setenv("HOME", origHome)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", origXDG)).To(Succeed())
		Expect(os.Setenv("LOOM_DB", origLoomDB)).To(Succeed())
		Expect(os.Setenv("LOOM_SQLITE", origLoomSQ)).To(Succeed())
		Expect(os.Chdir(origCwd)).To(Succeed())
	})

	It("returns absolute paths unchanged", func() {
		path, err := ResolveSQLitePath("/var/lib/loom/loom.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/var/lib/loom/loom.db"))
	})

	It("prefers LOOM_SQLITE when set", func() {
		Expect(os.Setenv("LOOM_SQLITE", "/tmp/custom.db")).To(Succeed())
		Expect(os.Setenv("LOOM_DB", "")).To(Succeed())

		path, err := ResolveSQLitePath("loom.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("resolves ~/.loom/loom.db when present", func() {
		homeDir, err := os.MkdirTemp("", "loom-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "loom-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("LOOM_DB", "")).To(Succeed())
		Expect(os.Setenv("LOOM_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		dbPath := filepath.Join(homeDir, ".loom", "loom.db")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("loom.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("falls back to the .loom dir when no database exists", func() {
		homeDir, err := os.MkdirTemp("", "loom-home-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(homeDir)
		})

		tmpDir, err := os.MkdirTemp("", "loom-cwd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(tmpDir)
		})

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Setenv("LOOM_DB", "")).To(Succeed())
		Expect(os.Setenv("LOOM_SQLITE", "")).To(Succeed())
		Expect(os.Chdir(tmpDir)).To(Succeed())

		path, err := ResolveSQLitePath("loom.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(homeDir, ".loom", "loom.db")))
	})
})
