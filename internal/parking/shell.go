package parking

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Shell is the interactive admin console. Every command runs inside its
// own span, mirroring what the HTTP handlers do per request.
type Shell struct {
	ledger    *InstrumentedLedger
	scanner   *bufio.Scanner
	telemetry *TelemetryProvider
}

func NewShell(ledger *InstrumentedLedger, telemetry *TelemetryProvider) *Shell {
	return &Shell{
		ledger:    ledger,
		scanner:   bufio.NewScanner(os.Stdin),
		telemetry: telemetry,
	}
}

func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]

	switch command {
	case "park":
		s.handlePark(ctx, parts)
	case "scan":
		s.handleScan(ctx)
	case "exit":
		s.handleExit(ctx, parts)
	case "confirm":
		s.handleConfirm(ctx)
	case "cancel":
		s.handleCancel(ctx)
	case "status":
		s.handleStatus(ctx)
	case "find":
		s.handleFind(ctx, parts)
	case "help":
		s.printHelp()
	default:
		fmt.Printf("Unknown command: %s\n", command)
	}
}

func (s *Shell) handlePark(ctx context.Context, parts []string) {
	if len(parts) != 3 {
		fmt.Println("Usage: park <registration_number> <slot_number>")
		return
	}

	slotNumber, err := strconv.Atoi(parts[2])
	if err != nil {
		fmt.Println("Invalid slot number")
		return
	}

	slot, err := s.ledger.Park(ctx, parts[1], slotNumber)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Printf("Parked %s in slot %d\n", slot.Vehicle, slot.Number)
}

func (s *Shell) handleScan(ctx context.Context) {
	plate, slot, err := s.ledger.AutoDetectAndPark(ctx)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Printf("Detected: %s\n", plate)
	fmt.Printf("Auto parked in slot %d\n", slot.Number)
}

func (s *Shell) handleExit(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		fmt.Println("Usage: exit <slot_number>")
		return
	}

	slotNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		fmt.Println("Invalid slot number")
		return
	}

	record, err := s.ledger.BeginExit(ctx, slotNumber)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Printf("Vehicle %s parked for %d minutes, bill amount %d\n",
		record.Vehicle, record.Minutes, record.Amount)
	fmt.Println("Run 'confirm' to accept the payment or 'cancel' to discard it")
}

func (s *Shell) handleConfirm(ctx context.Context) {
	record, err := s.ledger.ConfirmPayment(ctx)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Printf("Payment of %d received for %s (receipt %s)\n",
		record.Amount, record.Vehicle, record.ID)
}

func (s *Shell) handleCancel(ctx context.Context) {
	if err := s.ledger.CancelPayment(ctx); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Println("Pending payment discarded")
}

func (s *Shell) handleStatus(ctx context.Context) {
	slots := s.ledger.Snapshot(ctx)
	counts := s.ledger.OccupancyCounts()

	fmt.Printf("Total: %d  Free: %d  Occupied: %d\n",
		counts.Total, counts.Free, counts.Occupied)
	fmt.Println("Slot No.\tStatus\t\tRegistration No\tEntry Time")
	for _, slot := range slots {
		if slot.Occupied() {
			fmt.Printf("%d\t\t%s\t%s\t%s\n",
				slot.Number, slot.Status, slot.Vehicle, slot.EntryTime.Format("15:04:05"))
		} else {
			fmt.Printf("%d\t\t%s\n", slot.Number, slot.Status)
		}
	}
}

func (s *Shell) handleFind(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		fmt.Println("Usage: find <registration_number>")
		return
	}

	slotNumber, err := s.ledger.FindVehicle(ctx, parts[1])
	if err != nil {
		fmt.Println("Not found")
		return
	}

	fmt.Printf("%d\n", slotNumber)
}

func (s *Shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  park <registration> <slot>   park a vehicle in a specific slot")
	fmt.Println("  scan                         simulate an ANPR scan and auto park")
	fmt.Println("  exit <slot>                  free a slot and compute the bill")
	fmt.Println("  confirm                      confirm the pending payment")
	fmt.Println("  cancel                       discard the pending payment")
	fmt.Println("  status                       show every slot")
	fmt.Println("  find <registration>          slot number for a registration")
}
