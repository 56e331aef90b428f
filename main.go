package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/pkg/rabbitmq"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	portFlag        = "port"
	databaseURIFlag = "database-uri"
	rabbitMQURLFlag = "rabbitmq-url"
)

// newServeFlags builds a flag set for one command. cobraflags flags bind to the command
// they were last registered on, so every command gets its own map.
func newServeFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		portFlag: &cobraflags.StringFlag{
			Name:  portFlag,
			Value: "",
			Usage: "Listen address, overrides APP_PORT (e.g. :8080)",
		},
		databaseURIFlag: &cobraflags.StringFlag{
			Name:  databaseURIFlag,
			Value: "",
			Usage: "Database connection string, overrides DATABASE_URI (postgres://, sqlite://, memory://)",
		},
		rabbitMQURLFlag: &cobraflags.StringFlag{
			Name:  rabbitMQURLFlag,
			Value: "",
			Usage: "AMQP URL, overrides RABBITMQ_URL",
		},
	}
}

var flagKeys = map[string]string{
	portFlag:        config.KeyAppPort,
	databaseURIFlag: config.KeyDatabaseURI,
	rabbitMQURLFlag: config.KeyRabbitMQURL,
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := newCommand("catalog", "Product catalog REST service", serve)
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newCommand("serve", "Run the HTTP API (default)", serve),
		newCommand("migrate", "Create or update the products table and exit", app.Migrate),
		newCommand("events", "Consume and log product events from RabbitMQ", consumeEvents),
	)
	return rootCmd
}

// newCommand creates a command with its own connection flags that runs run with the
// resulting configuration.
func newCommand(use, short string, run func(config.Config) error) *cobra.Command {
	flags := newServeFlags()
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(loadConfig(flags))
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// loadConfig layers .env files, environment and command-line flags, in that order of
// increasing precedence.
func loadConfig(flags map[string]cobraflags.Flag) config.Config {
	config.LoadDotEnv(".env")

	v := viper.New()
	config.SetDefaults(v)
	for flag, key := range flagKeys {
		if value := flags[flag].GetString(); value != "" {
			v.Set(key, value)
		}
	}
	return config.Load(v)
}

func serve(cfg config.Config) error {
	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start catalog: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Listen()
	}()

	select {
	case <-quit:
		log.Println("Shutting down server...")
	case err := <-serverErr:
		log.Printf("Server stopped: %v", err)
	}

	if err := application.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
		return err
	}
	log.Println("Server gracefully stopped")
	return nil
}

func consumeEvents(cfg config.Config) error {
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("%s is required to consume events", config.KeyRabbitMQURL)
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.ConsumeProductEvents(func(event rabbitmq.Event) error {
		log.Printf("Received %s (event %s) for product %d", event.Type, event.EventID, event.ProductID)
		return nil
	})
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Stopping event consumer...")
	return nil
}
