package domain

// WatchConfig is the persisted `config` document: what to watch and how
// often. It is user-edited on disk; unknown or missing keys make the store
// rewrite it from defaults.
type WatchConfig struct {
	Target  WatchTarget  `json:"TARGET" mapstructure:"TARGET"`
	URL     WatchURLs    `json:"URL" mapstructure:"URL"`
	Runtime WatchRuntime `json:"RUNTIME" mapstructure:"RUNTIME"`
}

// WatchTarget selects the students' group inside the plan index page.
type WatchTarget struct {
	GroupPattern string `json:"group_pattern" mapstructure:"group_pattern"`
}

// WatchURLs are the monitored pages.
type WatchURLs struct {
	Cancel   string `json:"cancel" mapstructure:"cancel"`
	PlanBase string `json:"plan_base" mapstructure:"plan_base"`
	Plan     string `json:"plan" mapstructure:"plan"`
}

// WatchRuntime controls the polling loop and the notification toggles.
// LoopSeconds 0 means one cycle then exit. Cron, when set, replaces the
// fixed interval with a cron schedule.
type WatchRuntime struct {
	LoopSeconds     int    `json:"loop_time_in_seconds" mapstructure:"loop_time_in_seconds"`
	Cron            string `json:"cron" mapstructure:"cron"`
	SendEmailPlan   bool   `json:"send_email_plan" mapstructure:"send_email_plan"`
	SendEmailCancel bool   `json:"send_email_cancel" mapstructure:"send_email_cancel"`
}

// DefaultWatchConfig returns the factory `config` document.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		Target: WatchTarget{
			GroupPattern: "^1.*LMT",
		},
		URL: WatchURLs{
			Cancel:   "https://wa.amu.edu.pl/wa/Nieobecnosci_WA/",
			PlanBase: "https://wa.amu.edu.pl/timetables/",
			Plan:     "https://wa.amu.edu.pl/timetables/zima_2022_2023/groups/index.html",
		},
		Runtime: WatchRuntime{
			LoopSeconds:     0,
			Cron:            "",
			SendEmailPlan:   true,
			SendEmailCancel: true,
		},
	}
}
