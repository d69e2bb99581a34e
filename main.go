package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/nhAnik/modelhashid/config"
	"github.com/nhAnik/modelhashid/hashid"
	"github.com/nhAnik/modelhashid/internal/database"
	"github.com/nhAnik/modelhashid/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNotFound = errors.New("not found")

type options struct {
	envFiles   []string
	configFile string
	redisURL   string
	redisKey   string
	model      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "modelhashid",
		Short:         "Encode and decode model hash IDs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	flags := root.PersistentFlags()
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load (default ./.env)")
	flags.StringVar(&opts.configFile, "config", "", "config file with a hashid section")
	flags.StringVar(&opts.redisURL, "redis-url", os.Getenv("REDIS_URL"), "redis holding shared hashid options")
	flags.StringVar(&opts.redisKey, "redis-key", config.DefaultRedisKey, "redis hash with the options")
	flags.StringVarP(&opts.model, "model", "m", "", "model name, e.g. User")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newEncodeCmd(opts),
		newDecodeCmd(opts),
		newParseCmd(opts),
		newConfigCmd(opts),
		newLookupCmd(opts),
	)
	return root
}

func (o *options) generator(ctx context.Context) (*hashid.Generator, error) {
	store := hashid.NewStore()
	if err := config.LoadEnv(store, o.envFiles...); err != nil {
		return nil, err
	}
	if o.configFile != "" {
		v := viper.New()
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", o.configFile, err)
		}
		if err := config.LoadViper(v, store); err != nil {
			return nil, err
		}
	}
	if o.redisURL != "" {
		client, err := database.InitRedis(ctx, o.redisURL)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		var models []string
		if o.model != "" {
			models = append(models, o.model)
		}
		if err := config.LoadRedis(ctx, client, store, o.redisKey, models...); err != nil {
			return nil, err
		}
	}
	gen := hashid.NewGenerator(store)
	if o.model != "" {
		gen.Register(o.model)
	}
	return gen, nil
}

func (o *options) requireModel() error {
	if o.model == "" {
		return errors.New("--model is required")
	}
	return nil
}

func newEncodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <key>",
		Short: "Print the hash ID of an integer or UUID key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireModel(); err != nil {
				return err
			}
			gen, err := opts.generator(cmd.Context())
			if err != nil {
				return err
			}
			var hashID string
			if n, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
				hashID, err = hashid.NewType[int64](gen, opts.model).HashIDFor(n)
			} else if u, perr := uuid.Parse(args[0]); perr == nil {
				hashID, err = hashid.NewType[uuid.UUID](gen, opts.model).HashIDFor(u)
			} else {
				return fmt.Errorf("key %q is neither an integer nor a UUID", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashID)
			return nil
		},
	}
}

func newDecodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hashid>",
		Short: "Print the key a hash ID was built from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireModel(); err != nil {
				return err
			}
			gen, err := opts.generator(cmd.Context())
			if err != nil {
				return err
			}
			if key, ok := hashid.NewType[int64](gen, opts.model).KeyFromHashID(args[0]); ok {
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			}
			if key, ok := hashid.NewType[uuid.UUID](gen, opts.model).KeyFromHashID(args[0]); ok {
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			}
			return fmt.Errorf("%s %q: %w", opts.model, args[0], errNotFound)
		},
	}
}

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <hashid>",
		Short: "Split a hash ID into prefix, separator and body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := opts.generator(cmd.Context())
			if err != nil {
				return err
			}
			parsed, err := gen.Parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "prefix:    %s\n", parsed.Prefix)
			fmt.Fprintf(out, "separator: %s\n", parsed.Separator)
			fmt.Fprintf(out, "body:      %s\n", parsed.HashIDForKey)
			if parsed.ModelName != "" {
				fmt.Fprintf(out, "model:     %s\n", parsed.ModelName)
			}
			return nil
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved options of --model, or the global ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := opts.generator(cmd.Context())
			if err != nil {
				return err
			}
			cfg, err := gen.Config(opts.model)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s=%q\n", hashid.Salt, cfg.Salt)
			fmt.Fprintf(out, "%s=%d\n", hashid.Length, cfg.Length)
			fmt.Fprintf(out, "%s=%q\n", hashid.Alphabet, cfg.Alphabet)
			fmt.Fprintf(out, "%s=%d\n", hashid.PrefixLength, cfg.PrefixLength)
			fmt.Fprintf(out, "%s=%q\n", hashid.PrefixCase, cfg.PrefixCase)
			fmt.Fprintf(out, "%s=%q\n", hashid.Separator, cfg.Separator)
			fmt.Fprintf(out, "%s=%q\n", hashid.Engine, cfg.Engine)
			if opts.model != "" {
				prefix, err := gen.Prefix(opts.model)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s=%q\n", hashid.Prefix, prefix)
			}
			return nil
		},
	}
}

func newLookupCmd(opts *options) *cobra.Command {
	var dsn, table, keyColumn string
	cmd := &cobra.Command{
		Use:   "lookup <hashid>",
		Short: "Check that the row a hash ID points to exists in postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireModel(); err != nil {
				return err
			}
			if dsn == "" || table == "" {
				return errors.New("--dsn and --table are required")
			}
			gen, err := opts.generator(cmd.Context())
			if err != nil {
				return err
			}
			db, err := database.InitDB(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.New(db, hashid.NewType[int64](gen, opts.model), table, keyColumn)
			exists, err := repo.ExistsByHashID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%s %q: %w", opts.model, args[0], errNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "found")
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	cmd.Flags().StringVar(&table, "table", "", "table holding the model")
	cmd.Flags().StringVar(&keyColumn, "key-column", "id", "primary key column")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
