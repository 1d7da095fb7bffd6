package profile

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/TylerBrock/colorjson"
	"github.com/spf13/cobra"

	"github.com/temirov/grgry/internal/profiles"
)

const (
	showUseConstant          = "show"
	showShortDescription     = "Show the active profile"
	showAllFlagName          = "all"
	showAllFlagShorthand     = "a"
	showAllFlagDescription   = "Show every profile"
	jsonIndentWidthConstant  = 2
	renderedProfilesTemplate = "%s\n"
)

func (builder *CommandBuilder) buildShowCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   showUseConstant,
		Short: showShortDescription,
		Args:  cobra.NoArgs,
	}
	command.Flags().BoolP(showAllFlagName, showAllFlagShorthand, false, showAllFlagDescription)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		showAll, _ := command.Flags().GetBool(showAllFlagName)
		store, storeError := builder.loadStore()
		if storeError != nil {
			return storeError
		}

		var document any
		if showAll {
			allProfiles := make(map[string]profiles.Profile)
			for _, storedProfile := range store.Profiles() {
				allProfiles[storedProfile.Name] = storedProfile.Masked()
			}
			document = allProfiles
		} else {
			activeProfile, activeError := store.ActiveProfile()
			if activeError != nil {
				return activeError
			}
			document = activeProfile.Masked()
		}

		output := command.OutOrStdout()
		return RenderJSON(output, document, colorEnabled(output))
	}
	return command
}

// RenderJSON writes value as indented JSON with sorted keys, colorized when colored is set.
func RenderJSON(output io.Writer, value any, colored bool) error {
	encoded, encodeError := json.Marshal(value)
	if encodeError != nil {
		return encodeError
	}
	var generic any
	if decodeError := json.Unmarshal(encoded, &generic); decodeError != nil {
		return decodeError
	}

	formatter := colorjson.NewFormatter()
	formatter.Indent = jsonIndentWidthConstant
	formatter.DisabledColor = !colored
	rendered, renderError := formatter.Marshal(generic)
	if renderError != nil {
		return renderError
	}
	_, writeError := fmt.Fprintf(output, renderedProfilesTemplate, rendered)
	return writeError
}
