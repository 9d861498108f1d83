// boardctl is a small operational CLI for the board system. It drives the
// board controller against a running API server, sharing the same Redis
// session as any other client.
//
// Usage:
//
//	boardctl board                      print the board (columns and cards)
//	boardctl sprints                    list sprints
//	boardctl users                      list users
//	boardctl stats -sprint <id>         per-sprint card statistics
//	boardctl login -email E -password P authenticate and store the session
//	boardctl logout                     clear the stored session
//	boardctl move -card C -from COL -to COL [-pos N]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sprintdeck/board-system/internal/client/rest"
	"github.com/sprintdeck/board-system/internal/core/service"
	boardredis "github.com/sprintdeck/board-system/internal/infrastructure/db/redis"
	"github.com/sprintdeck/board-system/internal/pkg/config"
	"github.com/sprintdeck/board-system/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(os.Stderr, cfg.LogLevel, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rdb, err := boardredis.Connect(ctx, boardredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	store := rest.NewClient(cfg.StoreURL, cfg.OpTimeout)
	session := boardredis.NewSessionStore(rdb)
	board := service.NewBoardController(store, session, log, cfg.OpTimeout)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "board":
		runBoard(ctx, board)
	case "sprints":
		runSprints(ctx, board)
	case "users":
		runUsers(ctx, board)
	case "stats":
		runStats(ctx, board, args)
	case "login":
		runLogin(ctx, board, args)
	case "logout":
		board.Logout(ctx)
		exitOnBoardErr(board)
		fmt.Println("logged out")
	case "move":
		runMove(ctx, board, args)
	default:
		usage()
		os.Exit(2)
	}
}

func runBoard(ctx context.Context, board *service.BoardController) {
	board.RefreshData(ctx)
	exitOnBoardErr(board)

	for _, col := range board.Columns() {
		fmt.Printf("%s (%d cards)\n", col.Title, len(col.Cards))
		for _, card := range col.Cards {
			assignee := card.Assignee
			if assignee == "" {
				assignee = "unassigned"
			}
			fmt.Printf("  [%s] %-40s %s  %3d%%  %s\n",
				card.TaskID, card.Title, card.Priority, card.Progress, assignee)
		}
	}
}

func runSprints(ctx context.Context, board *service.BoardController) {
	board.RefreshSprints(ctx)
	exitOnBoardErr(board)

	for _, s := range board.Sprints() {
		fmt.Printf("%s  %-30s %-10s %s .. %s  (%d tasks)\n",
			s.ID, s.Name, s.Status, s.StartDate, s.EndDate, len(s.Tasks))
	}
}

func runUsers(ctx context.Context, board *service.BoardController) {
	board.RefreshUsers(ctx)
	exitOnBoardErr(board)

	for _, u := range board.Users() {
		fmt.Printf("%s  %-25s %-30s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
}

func runStats(ctx context.Context, board *service.BoardController, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	sprintID := fs.String("sprint", "", "sprint id")
	_ = fs.Parse(args)
	if *sprintID == "" {
		fmt.Fprintln(os.Stderr, "stats: -sprint is required")
		os.Exit(2)
	}

	board.RefreshData(ctx)
	exitOnBoardErr(board)

	stats := board.SprintStats(*sprintID)
	fmt.Printf("total=%d todo=%d in_progress=%d done=%d story_points=%d\n",
		stats.Total, stats.Todo, stats.InProgress, stats.Done, stats.StoryPoints)
}

func runLogin(ctx context.Context, board *service.BoardController, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "login: -email and -password are required")
		os.Exit(2)
	}

	user := board.Login(ctx, *email, *password)
	if user == nil {
		fmt.Fprintln(os.Stderr, board.Err())
		os.Exit(1)
	}
	fmt.Printf("logged in as %s (%s)\n", user.Name, user.Role)
}

func runMove(ctx context.Context, board *service.BoardController, args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	cardID := fs.String("card", "", "card id")
	from := fs.String("from", "", "source column id")
	to := fs.String("to", "", "destination column id")
	pos := fs.Int("pos", -1, "target position within the destination column")
	_ = fs.Parse(args)
	if *cardID == "" || *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "move: -card, -from and -to are required")
		os.Exit(2)
	}

	// The move needs the current board snapshot and permissions loaded.
	board.RefreshData(ctx)
	exitOnBoardErr(board)

	var newPosition *int
	if *pos >= 0 {
		newPosition = pos
	}
	board.MoveCard(ctx, *cardID, *from, *to, newPosition)
	exitOnBoardErr(board)
	fmt.Println("moved")
}

func exitOnBoardErr(board *service.BoardController) {
	if msg := board.Err(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: boardctl <board|sprints|users|stats|login|logout|move> [flags]")
}
