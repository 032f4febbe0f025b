package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/neerajvashistha/cuml/internal/config"
	"github.com/neerajvashistha/cuml/pairwise"
)

var _ = Describe("NewDefaultConfig", func() {
	It("validates", func() {
		Expect(config.NewDefaultConfig().Validate()).To(Succeed())
	})

	It("uses the engine default tile shape", func() {
		Expect(config.NewDefaultConfig().TileShape()).To(Equal(pairwise.DefaultTileShape()))
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	It("applies defaults when no config file exists", func() {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
		DeferCleanup(func() { Expect(os.Chdir(origDir)).To(Succeed()) })

		v, err := config.InitViper("")
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.NewDefaultConfig()))
	})

	It("reads an explicit config file", func() {
		path := filepath.Join(tmpDir, "pdist.toml")
		err := os.WriteFile(path, []byte(`
[engine]
workers = 3
tile_rows = 32
tile_cols = 16
tile_depth = 4

[verify]
precision = 64
seed = 7
`), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(path)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Engine.Workers).To(Equal(3))
		Expect(cfg.TileShape()).To(Equal(pairwise.TileShape{Rows: 32, Cols: 16, Depth: 4}))
		Expect(cfg.Verify.Precision).To(Equal(64))
		Expect(cfg.Verify.Seed).To(Equal(int64(7)))
		Expect(cfg.Verify.Cutoff).To(Equal(0.5))
		Expect(cfg.EngineOptions()).To(HaveLen(2))
	})

	It("fails on a missing explicit config file", func() {
		_, err := config.InitViper(filepath.Join(tmpDir, "missing.toml"))
		Expect(err).To(HaveOccurred())
	})

	It("lets environment variables override the file", func() {
		path := filepath.Join(tmpDir, "pdist.toml")
		Expect(os.WriteFile(path, []byte("[engine]\nworkers = 3\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv("PDIST_ENGINE_WORKERS", "9")
		GinkgoT().Setenv("PDIST_MEMORY_LIMIT_BYTES", "4096")

		v, err := config.InitViper(path)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Engine.Workers).To(Equal(9))
		Expect(cfg.Memory.LimitBytes).To(Equal(int64(4096)))
		Expect(cfg.Allocator().Controller().MemoryLimit()).To(Equal(int64(4096)))
	})

	It("rejects invalid values", func() {
		GinkgoT().Setenv("PDIST_VERIFY_PRECISION", "16")

		v, err := config.InitViper(filepath.Join(tmpDir, "none.toml"))
		Expect(err).To(HaveOccurred())
		Expect(v).To(BeNil())

		v, err = config.InitViper("")
		Expect(err).NotTo(HaveOccurred())
		_, err = config.Load(v)
		Expect(err).To(MatchError(ContainSubstring("verify.precision")))
	})

	It("rejects a partially set tile shape", func() {
		GinkgoT().Setenv("PDIST_ENGINE_TILE_ROWS", "8")

		v, err := config.InitViper("")
		Expect(err).NotTo(HaveOccurred())
		_, err = config.Load(v)
		Expect(err).To(MatchError(pairwise.ErrInvalidTileShape))
	})
})

var _ = Describe("Flag registry", func() {
	It("registers flags with defaults and binds them to viper", func() {
		var workers int
		var seed int64
		var cutoff float64
		var shape string

		cmd := &cobra.Command{Use: "test"}
		config.AddIntFlag(cmd, config.Flags, config.FlagWorkers, &workers)
		config.AddInt64Flag(cmd, config.Flags, config.FlagSeed, &seed)
		config.AddFloat64Flag(cmd, config.Flags, config.FlagCutoff, &cutoff)
		config.AddStringFlag(cmd, config.Flags, config.FlagBenchShape, &shape)

		Expect(workers).To(Equal(0))
		Expect(seed).To(Equal(int64(1234)))
		Expect(cutoff).To(Equal(0.5))
		Expect(shape).To(Equal("512,512,512"))
		Expect(cmd.Flags().Lookup("workers").Shorthand).To(Equal("w"))

		Expect(cmd.Flags().Parse([]string{"--workers", "5", "--seed", "99"})).To(Succeed())

		v, err := config.InitViper("")
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, config.Flags, []string{
			config.FlagWorkers, config.FlagSeed, config.FlagCutoff, "unknown",
		})

		cfg, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Engine.Workers).To(Equal(5))
		Expect(cfg.Verify.Seed).To(Equal(int64(99)))
		Expect(cfg.Verify.Cutoff).To(Equal(0.5))
	})

	It("ignores unknown registry keys", func() {
		var n int
		cmd := &cobra.Command{Use: "test"}
		config.AddIntFlag(cmd, config.Flags, "nope", &n)
		Expect(cmd.Flags().HasFlags()).To(BeFalse())
	})
})
