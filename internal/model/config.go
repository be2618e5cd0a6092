package model

type Config struct {
	VaultDir     string `yaml:"vault_dir"`
	AgendaFile   string `yaml:"agenda_file"`
	DatabasePath string `yaml:"database_path"`
	Sync         struct {
		Enable     bool     `yaml:"enable"`
		Platform   string   `yaml:"platform"`
		Bucket     string   `yaml:"bucket"`
		AWSProfile string   `yaml:"aws_profile"`
		AWSRegion  string   `yaml:"aws_region"`
		Include    []string `yaml:"include"`
		Exclude    []string `yaml:"exclude"`
	}
}

func DefaultConfig() Config {
	config := Config{
		VaultDir:     "~/Agenda",
		AgendaFile:   "~/Agenda/Agenda.md",
		DatabasePath: "~/.config/agenda/data/agenda.db",
	}
	config.Sync.Platform = "aws"
	return config
}
