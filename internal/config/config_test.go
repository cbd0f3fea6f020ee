package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 5000, Mode: "release"},
		AI:     AIConfig{Provider: "openai"},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Validate 检查配置有效性", t, func() {
		Convey("默认配置通过", func() {
			So(validConfig().Validate(), ShouldBeNil)
		})

		Convey("非法端口", func() {
			cfg := validConfig()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("非法模式", func() {
			cfg := validConfig()
			cfg.Server.Mode = "prod"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("负数限流阈值", func() {
			cfg := validConfig()
			cfg.RateLimit.Minute = -1
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知限流后端", func() {
			cfg := validConfig()
			cfg.RateLimit.Backend = "memcached"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知 AI provider", func() {
			cfg := validConfig()
			cfg.AI.Provider = "anthropic"
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}

func TestRelayConfig_RoutePath(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"", "/"},
		{"null", "/"},
		{"api", "/api"},
		{"/api/", "/api"},
		{" chat/v1 ", "/chat/v1"},
	}

	for _, tt := range tests {
		got := RelayConfig{Route: tt.route}.RoutePath()
		if got != tt.want {
			t.Errorf("RoutePath(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}

func TestRateLimitConfig_Enabled(t *testing.T) {
	Convey("任一阈值为正即启用限流", t, func() {
		So(RateLimitConfig{}.Enabled(), ShouldBeFalse)
		So(RateLimitConfig{Second: 1}.Enabled(), ShouldBeTrue)
		So(RateLimitConfig{Hour: 100}.Enabled(), ShouldBeTrue)
	})
}

func TestParseCeiling(t *testing.T) {
	Convey("ParseCeiling 非数字视为不限制", t, func() {
		So(ParseCeiling("10"), ShouldEqual, 10)
		So(ParseCeiling(" 3 "), ShouldEqual, 3)
		So(ParseCeiling(""), ShouldEqual, 0)
		So(ParseCeiling("abc"), ShouldEqual, 0)
		So(ParseCeiling("1.5"), ShouldEqual, 0)
		So(ParseCeiling("-5"), ShouldEqual, 0)
	})
}
