package cli

import (
	"github.com/spf13/cobra"
)

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func newUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			user, err := backend.CreateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toUserOutput(user))
		},
	})

	return cmd
}

func newGuildCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guild",
		Short: "Manage guilds",
	}

	var score int64
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			guild, err := backend.CreateGuild(cmd.Context(), args[0], score)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toGuildOutput(guild))
		},
	}
	create.Flags().Int64Var(&score, "score", 0, "initial guild score")
	cmd.AddCommand(create)

	return cmd
}

func newPlayerCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage player profiles",
	}

	var userID, guildID string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the player profile of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			player, err := backend.RegisterPlayer(cmd.Context(), userID, optionalString(guildID))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toPlayerOutput(player))
		},
	}
	create.Flags().StringVar(&userID, "user-id", "", "id of the user that owns the player")
	create.Flags().StringVar(&guildID, "guild-id", "", "guild to join")
	_ = create.MarkFlagRequired("user-id")
	cmd.AddCommand(create)

	var joinGuildID string
	joinGuild := &cobra.Command{
		Use:   "join-guild <player-id>",
		Short: "Move a player into a guild, or out of any guild when --guild-id is empty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			player, err := backend.SetPlayerGuild(cmd.Context(), args[0], optionalString(joinGuildID))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toPlayerOutput(player))
		},
	}
	joinGuild.Flags().StringVar(&joinGuildID, "guild-id", "", "guild to join")
	cmd.AddCommand(joinGuild)

	return cmd
}
