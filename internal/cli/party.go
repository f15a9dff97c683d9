package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPartyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Party hosting commands",
	}

	cmd.AddCommand(newPartyCreateCmd())
	cmd.AddCommand(newPartyListCmd())
	cmd.AddCommand(newPartyGetCmd())
	cmd.AddCommand(newPartyInviteCmd())
	cmd.AddCommand(newPartyAssignCmd())
	cmd.AddCommand(newPartyAccuseCmd())
	cmd.AddCommand(newPartyPublishCmd())
	cmd.AddCommand(newPartyStartCmd())
	cmd.AddCommand(newPartyAdvanceCmd())
	cmd.AddCommand(newPartyCancelCmd())

	return cmd
}

func newPartyCreateCmd() *cobra.Command {
	var pkg, title, description, date, address string
	var maxGuests int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new party",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pkg == "" || title == "" {
				return fmt.Errorf("--package and --title are required")
			}

			req := map[string]any{
				"mystery_package_id": pkg,
				"title":              title,
				"max_guests":         maxGuests,
			}
			if description != "" {
				req["description"] = description
			}
			if date != "" {
				req["scheduled_date"] = date
			}
			if address != "" {
				req["address"] = address
			}

			var result Party

			if err := client.Post("/api/v1/parties", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "", "Mystery package ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Party title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Party description")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled date (RFC 3339)")
	cmd.Flags().StringVar(&address, "address", "", "Venue address")
	cmd.Flags().IntVar(&maxGuests, "max-guests", 8, "Guest capacity")
	_ = cmd.MarkFlagRequired("package")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newPartyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List parties you are hosting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Party

			if err := client.Get("/api/v1/parties", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPartyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get party details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Party

			if err := client.Get(fmt.Sprintf("/api/v1/parties/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPartyInviteCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "invite <id>",
		Short: "Add a guest to the roster and issue an invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"name": name}
			var result Guest

			if err := client.Post(fmt.Sprintf("/api/v1/parties/%s/guests", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Guest name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPartyAssignCmd() *cobra.Command {
	var character string

	cmd := &cobra.Command{
		Use:   "assign <id> <guest-id>",
		Short: "Assign a character to a guest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if character == "" {
				return fmt.Errorf("--character is required")
			}

			req := map[string]string{"character_id": character}
			var result Party

			path := fmt.Sprintf("/api/v1/parties/%s/guests/%s/character", args[0], args[1])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&character, "character", "", "Character ID (required)")
	_ = cmd.MarkFlagRequired("character")

	return cmd
}

func newPartyAccuseCmd() *cobra.Command {
	var character, reasoning string

	cmd := &cobra.Command{
		Use:   "accuse <id>",
		Short: "Accuse a character of the murder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if character == "" {
				return fmt.Errorf("--character is required")
			}

			req := map[string]string{
				"accused_character_id": character,
				"reasoning":            reasoning,
			}
			var result Party

			if err := client.Post(fmt.Sprintf("/api/v1/parties/%s/accusations", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&character, "character", "", "Accused character ID (required)")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "Why you suspect them")
	_ = cmd.MarkFlagRequired("character")

	return cmd
}

func newPartyPublishCmd() *cobra.Command {
	return newLifecycleCmd("publish", "Publish a draft party so guests can join")
}

func newPartyStartCmd() *cobra.Command {
	return newLifecycleCmd("start", "Start the game and enter the first phase")
}

func newPartyAdvanceCmd() *cobra.Command {
	return newLifecycleCmd("advance", "Advance to the next phase")
}

func newPartyCancelCmd() *cobra.Command {
	return newLifecycleCmd("cancel", "Cancel the party")
}

func newLifecycleCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Party

			if err := client.Post(fmt.Sprintf("/api/v1/parties/%s/%s", args[0], verb), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
