package config

// Version is overridden at build time with -ldflags "-X repairshop.dev/photo-gateway/config.Version=..."
var Version = "dev"
