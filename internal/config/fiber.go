package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger, cfg Env) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               "Jewelry Try-On",
			BodyLimit:             cfg.MaxFrameBytes + 1024*1024,
			DisableKeepalive:      false,
			StrictRouting:         true,
			CaseSensitive:         true,
			EnablePrintRoutes:     cfg.AppEnv == "development",
			DisableStartupMessage: cfg.AppEnv == "test",
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
		})

	return app
}
