package main

import (
	"laufmanager.de/configs"
	"laufmanager.de/pkg/mailer"
	"laufmanager.de/repositories"
	"laufmanager.de/routes"
	"laufmanager.de/services"

	"gorm.io/gorm"
)

// buildDependencies wires repositories and services for one database pool.
func buildDependencies(cfg *configs.AppConfig, db *gorm.DB) (routes.Dependencies, error) {
	loc, err := cfg.Location()
	if err != nil {
		return routes.Dependencies{}, err
	}
	clock := services.NewClock(loc)

	runnerRepo := repositories.NewRunnerRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// left nil when delivery is off so the notify service only records messages
	var sender mailer.Sender
	if cfg.MailEnabled() {
		sender = mailer.NewResendSender(cfg.Mail.APIKey, cfg.Mail.BaseURL, cfg.Mail.Timeout)
	}

	return routes.Dependencies{
		Config:     cfg,
		Feeds:      services.NewFeedService(runnerRepo, eventRepo, attendanceRepo, clock, services.FeedOptionsFrom(cfg.Feed)),
		Notify:     services.NewNotifyService(runnerRepo, eventRepo, attendanceRepo, messageRepo, sender, clock, services.NotifyOptionsFrom(cfg)),
		Attendance: services.NewAttendanceService(attendanceRepo, eventRepo, clock),
		Runners:    services.NewRunnerService(runnerRepo, cfg.Server.BaseURL),
		Events:     services.NewEventService(eventRepo, clock),
	}, nil
}
