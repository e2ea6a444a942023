package log

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Level", func() {
	It("parses every declared name", func() {
		for _, name := range LevelNames {
			lvl, err := ParseLevel(name)
			Expect(err).Should(Succeed())
			Expect(lvl.String()).Should(Equal(name))
		}
	})

	It("rejects unknown names", func() {
		_, err := ParseLevel("noisy")
		Expect(err).Should(HaveOccurred())
	})

	It("round-trips through text marshalling", func() {
		text, err := LevelWarn.MarshalText()
		Expect(err).Should(Succeed())

		var lvl Level
		Expect(lvl.UnmarshalText(text)).Should(Succeed())
		Expect(lvl).Should(Equal(LevelWarn))
	})
})

var _ = Describe("ColorMode", func() {
	It("parses every declared name", func() {
		for _, name := range ColorModeNames {
			m, err := ParseColorMode(name)
			Expect(err).Should(Succeed())
			Expect(m.String()).Should(Equal(name))
		}
	})
})

var _ = Describe("ConfigureLogger", func() {
	It("accepts every level/color combination without panicking", func() {
		for _, lvl := range []Level{LevelInfo, LevelDebug, LevelWarn, LevelError} {
			for _, c := range []ColorMode{ColorModeAuto, ColorModeAlways, ColorModeNever} {
				Expect(func() { ConfigureLogger(Config{Level: lvl, Color: c, Timestamp: true}) }).ShouldNot(Panic())
			}
		}

		ConfigureLogger(Config{Level: LevelInfo, Color: ColorModeAuto, Timestamp: true})
	})
})
