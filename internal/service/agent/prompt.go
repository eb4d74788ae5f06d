package agent

import (
	"fmt"
	"strings"

	"github.com/sandevgo/ridevoice/internal/core"
	"github.com/sandevgo/ridevoice/internal/service/ride"
)

const (
	DefaultDriverName    = "Ramesh"
	DefaultVehicleNumber = "T S 0 8 F I 8 9 7 6"
)

// SysPrompt renders the per-cycle system instruction.
type SysPrompt struct {
	DriverName    string
	VehicleNumber string
}

func NewSysPrompt() *SysPrompt {
	return &SysPrompt{
		DriverName:    DefaultDriverName,
		VehicleNumber: DefaultVehicleNumber,
	}
}

// ConfirmationScript is what the model must say once the user confirms a quoted ride.
func (p *SysPrompt) ConfirmationScript(otp int) string {
	return fmt.Sprintf(
		"Confirmed! Your ride is on the way. The driver name is %s and the vehicle number is %s. "+
			"Your security O T P is %d. I repeat, your O T P is %d. Once again, your O T P is %d.",
		p.DriverName, p.VehicleNumber, otp, otp, otp,
	)
}

// Build embeds the detected language and this cycle's ride facts. Confirmation
// phrases are left to the model's judgement.
func (p *SysPrompt) Build(language string, facts ride.Facts) core.Turn {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a helpful voice assistant. User language: %s. ", language)
	fmt.Fprintf(&sb, "CURRENT RIDE DATA: Distance is %dkm, Fare is %d rupees, OTP is %d. ",
		facts.DistanceKm, facts.FareRupees, facts.OTP)
	sb.WriteString("CONSTRAINTS: ")
	sb.WriteString("1. If the user mentions a destination or asks to book, use the CURRENT RIDE DATA provided above. ")
	fmt.Fprintf(&sb, "2. If the user says 'Yes', 'Confirm', or 'Book it' (in any letter case) AFTER you mentioned the price, you MUST say: '%s' ",
		p.ConfirmationScript(facts.OTP))
	sb.WriteString("3. If they change the destination, acknowledge it and state the NEW distance and fare provided. ")
	sb.WriteString("4. For other chat, be brief like Siri.")

	return core.SystemTurn(sb.String())
}
