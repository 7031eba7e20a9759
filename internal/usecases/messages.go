package usecases

import (
	"errors"
	"fmt"
	"strings"

	"verifybot/internal/domain"
)

// User-facing replies.
const (
	msgLookupFailed    = "There was an Error while contacting the Mojang API or it returned bad data (maybe an invalid Username). Please try again later."
	msgAccountNotFound = "Invalid Username (no UUID from Mojang API). Please try again."
	msgProfileService  = "There was an Error while contacting the Hypixel API or it returned bad data. Please try again later."
	msgNoLinkedDiscord = "This User doesn't have any Discord linked on Hypixel. If you just changed it wait a few minutes and try again."
	msgMemberMissing   = "There was an Error while fetching your profile from the Discord API and therefore the bot can't assign you the roles. Please try again later."
	msgRoleMissing     = "Error while getting Rank roles, maybe they dont exist?"
	msgUnhandled       = "There was an unhandled Error :("
	msgVerified        = "You now have all the roles and your Nickname was changed to your Minecraft Username."

	msgGrantFailed    = "Some kind of Error occurred while trying to give you your roles. This probably has to do something with permissions: Make sure the bot is over you in the Role hierarchy otherwise it can't assign you the roles. Also make sure the roles exist."
	msgRevokeFailed   = "Some kind of Error occurred while trying to remove your old Rank role. This probably has to do something with permissions: Make sure the bot is over you in the Role hierarchy otherwise it can't remove the roles."
	msgNicknameFailed = "The bot was unable to change your nickname. This probably has to do something with permissions: Make sure the bot is over you in the Role hierarchy otherwise it can't change your nickname."

	msgInternalError = "An internal Error occurred while processing this command."
)

// VerifyUsage is the reply to a verify command with the wrong argument count.
func VerifyUsage(prefix string) string {
	return fmt.Sprintf("Invalid usage: `%sverify Username`", prefix)
}

func lengthMessage(n int) string {
	return fmt.Sprintf("Your Username is `%d` characters long, which is impossible (%d-%d characters). Please provide a valid Username and try again.",
		n, domain.MinUsernameLength, domain.MaxUsernameLength)
}

func mismatchMessage(linked, requester string) string {
	return fmt.Sprintf("The linked Username `%s` doesn't match your Discord Username: `%s`. If you just changed this wait a bit and try again.",
		linked, requester)
}

// failureMessage maps a terminal pipeline error to its reply.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return msgAccountNotFound
	case errors.Is(err, domain.ErrLookupFailed):
		return msgLookupFailed
	case errors.Is(err, domain.ErrProfileService):
		return msgProfileService
	case errors.Is(err, domain.ErrMemberUnavailable):
		return msgMemberMissing
	case errors.Is(err, domain.ErrRoleMissing):
		return msgRoleMissing
	default:
		return msgUnhandled
	}
}

// applyMessage describes the outcome of ApplyDelta; one line per failed phase.
func applyMessage(report domain.ApplyReport) string {
	if len(report.Failures) == 0 {
		return msgVerified
	}
	lines := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		switch f.Phase {
		case domain.PhaseGrant:
			lines = append(lines, msgGrantFailed)
		case domain.PhaseRevoke:
			lines = append(lines, msgRevokeFailed)
		case domain.PhaseNickname:
			lines = append(lines, msgNicknameFailed)
		}
	}
	return strings.Join(lines, "\n")
}
