package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripdocs/tripdocs/internal/models"
	"github.com/tripdocs/tripdocs/internal/userdata"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)

	showCmd.Flags().StringP("user", "u", "", "User id (required)")
	showCmd.Flags().StringP("entity", "e", "", "Entity type: passport, personal, funds or travel")
	showCmd.Flags().StringP("destination", "d", "", "Destination code for travel info")
	_ = showCmd.MarkFlagRequired("user")

	exportCmd.Flags().StringP("user", "u", "", "User id (required)")
	exportCmd.Flags().Bool("batch", true, "Load all entity types in one storage round trip")
	_ = exportCmd.MarkFlagRequired("user")

	statsCmd.Flags().StringP("user", "u", "", "Warm the cache for a user before reading counters")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache hit/miss/invalidation counters",
	RunE:  handleStats,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one entity (or everything) stored for a user",
	RunE:  handleShow,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump everything stored for a user as JSON",
	RunE:  handleExport,
}

func handleStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if userID, _ := cmd.Flags().GetString("user"); userID != "" {
		if err := svc.Initialize(ctx, userID); err != nil {
			return err
		}
		// a second pass turns the warmed entries into hits
		if _, err := svc.GetAllUserData(ctx, userID, userdata.LoadOptions{}); err != nil {
			return err
		}
	}

	stats := svc.CacheStats()
	fmt.Printf("hits:          %d\n", stats.Hits)
	fmt.Printf("misses:        %d\n", stats.Misses)
	fmt.Printf("invalidations: %d\n", stats.Invalidations)
	fmt.Printf("hit rate:      %.1f%%\n", stats.HitRate())
	fmt.Printf("since:         %s\n", stats.LastReset.Format("2006-01-02 15:04:05"))
	return nil
}

func handleShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")
	entity, _ := cmd.Flags().GetString("entity")
	destination, _ := cmd.Flags().GetString("destination")

	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var payload any
	switch entity {
	case "passport":
		p, err := svc.GetPassport(ctx, userID)
		if err != nil {
			return err
		}
		payload = models.ToSerializablePassport(p)
	case "personal":
		p, err := svc.GetPersonalInfo(ctx, userID)
		if err != nil {
			return err
		}
		payload = models.ToSerializablePersonalInfo(p)
	case "funds":
		items, err := svc.GetFundItems(ctx, userID)
		if err != nil {
			return err
		}
		payload = models.ToSerializableFundItems(items)
	case "travel":
		if destination != "" {
			t, err := svc.GetTravelInfo(ctx, userID, destination)
			if err != nil {
				return err
			}
			payload = models.ToSerializableTravelInfo(t)
		} else {
			all, err := svc.GetAllTravelInfo(ctx, userID)
			if err != nil {
				return err
			}
			out := make([]models.SerializableTravelInfo, 0, len(all))
			for i := range all {
				out = append(out, *models.ToSerializableTravelInfo(&all[i]))
			}
			payload = out
		}
	case "":
		data, err := svc.GetAllUserData(ctx, userID, userdata.LoadOptions{})
		if err != nil {
			return err
		}
		payload = models.ToSerializableUserData(data)
	default:
		return fmt.Errorf("unknown entity %q (want passport, personal, funds or travel)", entity)
	}

	return printJSON(payload)
}

func handleExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")
	batch, _ := cmd.Flags().GetBool("batch")

	svc, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := svc.GetAllUserData(ctx, userID, userdata.LoadOptions{UseBatchLoad: batch})
	if err != nil {
		return err
	}
	return printJSON(models.ToSerializableUserData(data))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
