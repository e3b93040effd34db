// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/worldgate/internal/command/commandtest"
	"github.com/holomush/worldgate/internal/engine/localfs"
	"github.com/holomush/worldgate/internal/plugin"
	"github.com/holomush/worldgate/internal/worlds"
)

// diskHost serves a localfs engine to the plugin.
type diskHost struct {
	engine *localfs.Engine
	data   string
}

func (h *diskHost) Engine() worlds.Engine                   { return h.engine }
func (h *diskHost) DataFolder() string                      { return h.data }
func (h *diskHost) APIVersion() string                      { return "1.20.4" }
func (h *diskHost) PlayerExact(string) (worlds.Actor, bool) { return nil, false }

var _ = Describe("Plugin lifecycle on disk", func() {
	var (
		ctx       context.Context
		container string
		host      *diskHost
		p         *plugin.Plugin
		console   *commandtest.Sender
	)

	boot := func() {
		engine, err := localfs.New(container)
		Expect(err).NotTo(HaveOccurred())
		for _, name := range []string{worlds.DefaultWorld, worlds.DefaultNetherWorld, worlds.DefaultEndWorld} {
			_, err := engine.CreateOrLoad(ctx, worlds.Spec{Name: name})
			Expect(err).NotTo(HaveOccurred())
		}
		host.engine = engine

		p, err = plugin.New(host)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Enable(ctx)).To(Succeed())
	}

	shutdown := func() {
		Expect(p.Disable(ctx)).To(Succeed())
		Expect(host.engine.Close(ctx)).To(Succeed())
	}

	run := func(args ...string) string {
		Expect(p.OnCommand(ctx, console, "swm", args)).To(BeTrue())
		return console.Last()
	}

	BeforeEach(func() {
		ctx = context.Background()
		root := GinkgoT().TempDir()
		container = filepath.Join(root, "worlds")
		host = &diskHost{data: filepath.Join(root, "plugins", "worldgate")}
		Expect(os.MkdirAll(host.data, 0o750)).To(Succeed())
		console = commandtest.NewSender("console")
		boot()
	})

	AfterEach(func() {
		if p.Enabled() {
			shutdown()
		}
	})

	It("creates a world with a level file", func() {
		Expect(run("create", "Lobby One", "4242")).To(Equal("World created"))

		Expect(filepath.Join(container, "LobbyOne", "level.dat")).To(BeAnExistingFile())
		cfg, ok := p.Registry().World("LobbyOne")
		Expect(ok).To(BeTrue())
		Expect(cfg.DisplayName).To(Equal("Lobby One"))
		Expect(cfg.Seed).To(Equal(int64(4242)))
	})

	It("clones a world with a fresh identity", func() {
		Expect(run("create", "lobby")).To(Equal("World created"))
		Expect(run("clone", "lobby", "lobby_copy")).To(Equal("Cloning finished"))

		src, err := localfs.UUID(filepath.Join(container, "lobby"))
		Expect(err).NotTo(HaveOccurred())
		dst, err := localfs.UUID(filepath.Join(container, "lobby_copy"))
		Expect(err).NotTo(HaveOccurred())
		Expect(dst).NotTo(Equal(src))

		original, _ := p.Registry().World("lobby")
		clone, _ := p.Registry().World("lobby_copy")
		Expect(clone.Seed).To(Equal(original.Seed))
		Expect(p.Registry().CheckWorldLoaded("lobby_copy")).To(BeTrue())
	})

	It("removes a world only after confirmation", func() {
		Expect(run("create", "doomed")).To(Equal("World created"))
		run("remove", "doomed")
		Expect(filepath.Join(container, "doomed")).To(BeADirectory())

		Expect(run("remove", "doomed", "confirm")).To(Equal("World removed"))
		Expect(filepath.Join(container, "doomed")).NotTo(BeAnExistingFile())
		Expect(p.Registry().CheckWorldExists("doomed")).To(BeFalse())
	})

	It("imports a folder left by another server", func() {
		other, err := localfs.New(filepath.Join(GinkgoT().TempDir(), "other"))
		Expect(err).NotTo(HaveOccurred())
		w, err := other.CreateOrLoad(ctx, worlds.Spec{Name: "legacy"})
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Close(ctx)).To(Succeed())
		Expect(os.Rename(w.Dir(), filepath.Join(container, "legacy"))).To(Succeed())

		Expect(run("import", "legacy")).To(Equal("World imported"))
		Expect(p.Registry().CheckWorldExists("legacy")).To(BeTrue())
	})

	It("restores links, force-load and spawn after a restart", func() {
		run("create", "sky", "7")
		run("create", "sky_nether", "8", "NETHER")
		Expect(run("link", "sky", "sky_nether", "nether")).To(Equal("Worlds linked"))
		Expect(run("forceload", "add", "sky_nether")).To(Equal("World added"))
		Expect(run("spawn", "set", "sky", "default")).To(Equal("Spawn was successfully set"))

		shutdown()
		boot()

		cfg, ok := p.Registry().World("sky")
		Expect(ok).To(BeTrue())
		Expect(cfg.PortalNether).To(Equal("sky_nether"))
		Expect(cfg.Seed).To(Equal(int64(7)))
		Expect(p.Registry().CheckWorldLoaded("sky_nether")).To(BeTrue())
		Expect(p.State().Spawn().World).To(Equal("sky"))
	})
})
