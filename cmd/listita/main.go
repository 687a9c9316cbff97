package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/l-mendez/listita/internal/app"
	"github.com/l-mendez/listita/internal/checkout"
	"github.com/l-mendez/listita/internal/config"
	"github.com/l-mendez/listita/internal/domain"
	"github.com/l-mendez/listita/internal/store"
)

// cliNavigator stands in for the mobile shell's back navigation.
type cliNavigator struct{}

func (cliNavigator) NavigateBack() {
	fmt.Println("List complete! Returning to your lists...")
}

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(ctx, cfg, cliNavigator{})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
		email := loginCmd.String("email", "", "Account email")
		password := loginCmd.String("password", "", "Account password")
		loginCmd.Parse(os.Args[2:])
		if *email == "" || *password == "" {
			log.Fatal("login requires -email and -password")
		}
		if err := application.Login(ctx, *email, *password); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		fmt.Println("Logged in.")
	case "logout":
		application.Logout(ctx)
		fmt.Println("Logged out.")
	case "lists":
		requireAuth(application)
		application.Lists.Load(store.ListFilter{SortBy: "updatedAt", Order: "DESC"})
		snap := application.Lists.Snapshot()
		if snap.Error != "" {
			log.Fatalf("Failed to load lists: %s", snap.Error)
		}
		for _, l := range snap.Items {
			marker := " "
			if l.Recurring {
				marker = "R"
			}
			fmt.Printf("%s  %-36s  %s\n", marker, l.ID, l.Name)
		}
	case "show":
		requireAuth(application)
		if len(os.Args) < 3 {
			log.Fatal("show requires a list id")
		}
		application.Detail.Open(os.Args[2])
		snap := application.Detail.Snapshot()
		if snap.Error != "" {
			log.Fatalf("Failed to load list: %s", snap.Error)
		}
		if list := application.Detail.List(); list != nil {
			fmt.Printf("%s — %d item(s)\n", list.Name, len(snap.Items))
		}
		for _, it := range snap.Items {
			printItem(it)
		}
	case "toggle":
		requireAuth(application)
		if len(os.Args) < 4 {
			log.Fatal("toggle requires a list id and an item id")
		}
		application.Detail.Open(os.Args[2])
		if snap := application.Detail.Snapshot(); snap.Error != "" {
			log.Fatalf("Failed to load list: %s", snap.Error)
		}
		application.Checkout.ToggleItem(os.Args[3])
		waitForCheckout(application)
		if snap := application.Lists.Snapshot(); snap.Error != "" {
			log.Fatalf("Completion failed: %s", snap.Error)
		} else if snap.SuccessMessage != "" {
			fmt.Println(snap.SuccessMessage)
		}
	case "history":
		requireAuth(application)
		application.Purchases.Load()
		snap := application.Purchases.Snapshot()
		if snap.Error != "" {
			log.Fatalf("Failed to load history: %s", snap.Error)
		}
		for _, p := range snap.Items {
			name := "(deleted list)"
			if p.List != nil {
				name = p.List.Name
			}
			fmt.Printf("%-36s  %s  %s (%d items)\n", p.ID, p.CreatedAt.Format("2006-01-02"), name, len(p.Items))
		}
	case "restore":
		requireAuth(application)
		if len(os.Args) < 3 {
			log.Fatal("restore requires a purchase id")
		}
		application.Purchases.Restore(os.Args[2])
		snap := application.Purchases.Snapshot()
		if snap.Error != "" {
			log.Fatalf("Restore failed: %s", snap.Error)
		}
		fmt.Println(snap.SuccessMessage)
	case "clip":
		requireAuth(application)
		if len(os.Args) < 4 {
			log.Fatal("clip requires a recipe URL and a list id")
		}
		added, err := application.Clipper.ClipToList(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("Clip failed after %d item(s): %v", added, err)
		}
		fmt.Printf("Added %d item(s) to the list.\n", added)
	case "theme":
		if len(os.Args) < 3 {
			theme, err := application.Prefs.Theme(ctx)
			if err != nil {
				log.Fatalf("Failed to read theme: %v", err)
			}
			if theme == "" {
				theme = "system"
			}
			fmt.Println(theme)
			return
		}
		if err := application.Prefs.SetTheme(ctx, os.Args[2]); err != nil {
			log.Fatalf("Failed to store theme: %v", err)
		}
		fmt.Printf("Theme set to %s.\n", os.Args[2])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: listita <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  login -email <email> -password <password>   Log in and store the session")
	fmt.Println("  logout                                      Forget the stored session")
	fmt.Println("  lists                                       Show your shopping lists")
	fmt.Println("  show <list-id>                              Show one list's items")
	fmt.Println("  toggle <list-id> <item-id>                  Toggle an item's purchased flag")
	fmt.Println("  history                                     Show past purchases")
	fmt.Println("  restore <purchase-id>                       Restore a purchase to a list")
	fmt.Println("  clip <url> <list-id>                        Add a recipe's ingredients to a list")
	fmt.Println("  theme [value]                               Show or set the display theme")
}

func requireAuth(a *app.App) {
	if !a.Session.Authenticated() {
		log.Fatal("Not logged in. Run: listita login -email <email> -password <password>")
	}
}

func printItem(it domain.ListItem) {
	check := "[ ]"
	if it.Purchased {
		check = "[x]"
	}
	name := "(unknown product)"
	if it.Product != nil {
		name = it.Product.Name
	}
	if it.Unit != "" {
		fmt.Printf("%s %-36s  %g %s %s\n", check, it.ID, it.Quantity, it.Unit, name)
	} else {
		fmt.Printf("%s %-36s  %g %s\n", check, it.ID, it.Quantity, name)
	}
}

// waitForCheckout lets the background purchase transaction finish before the
// process exits.
func waitForCheckout(a *app.App) {
	deadline := time.Now().Add(30 * time.Second)
	for a.Checkout.State() != checkout.Idle && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
}
