package main

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/xcsh-hit/goblog/pkg/common/config"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/web/router"
)

func main() {
	cfg := config.Load()

	db, err := cfg.InitDB()
	if err != nil {
		panic("Failed to initialize database: " + err.Error())
	}

	if err := model.AutoMigrate(db); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)

	router.RegisterRoutes(h, cfg, db)

	h.Spin()
}
