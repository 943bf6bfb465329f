package cmd

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spacedl/spacedl/util"
)

// selectSpaces asks which of the discovered space URLs to download.
func selectSpaces(urls []string) ([]string, error) {
	pageSize := 10
	if _, height, err := util.TerminalSize(); err == nil && height > 4 {
		pageSize = util.Max(height-4, 1)
	}

	prompt := &survey.MultiSelect{
		Message:  "Spaces to download",
		Options:  urls,
		Default:  urls,
		PageSize: pageSize,
		Filter: func(filter, value string, _ int) bool {
			return fuzzy.MatchNormalizedFold(filter, value)
		},
	}

	var selected []string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	if len(selected) == 0 {
		return nil, errors.New("no spaces selected")
	}

	return selected, nil
}
