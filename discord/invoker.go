package discord

import "github.com/bwmarrin/discordgo"

// Invoker identifies the account that triggered a command.
type Invoker struct {
	ID          string
	Username    string
	DisplayName string
	// Permissions is the member's computed permission set in the invoking channel.
	// It is zero outside of guilds and for plain-text commands.
	Permissions int64
}

// IsAdmin reports whether the invoker holds the administrator permission.
func (i Invoker) IsAdmin() bool {
	return i.Permissions&discordgo.PermissionAdministrator != 0
}

func invokerFromUser(u *discordgo.User) Invoker {
	if u == nil {
		return Invoker{}
	}
	return Invoker{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.GlobalName,
	}
}

// invokerFromInteraction prefers the guild member, which is the only source of permissions.
// Interactions from DMs carry a bare user.
func invokerFromInteraction(i *discordgo.Interaction) Invoker {
	if i.Member != nil {
		inv := invokerFromUser(i.Member.User)
		inv.Permissions = i.Member.Permissions
		return inv
	}
	return invokerFromUser(i.User)
}
