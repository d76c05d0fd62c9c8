package types

type RepoIndexFile struct {
	Pip map[string][]string `yaml:"pip"`
	Apt map[string][]string `yaml:"apt"`
}
