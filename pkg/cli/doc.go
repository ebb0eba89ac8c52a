/*
Package cli provides helpers shared by the nxgov-metrics commands.

Output formatting for command results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

Exit codes are derived from the returned error:

	os.Exit(cli.ExitCode(err))

Signal handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	hup, stopHUP := cli.ReloadSignals()
	defer stopHUP()
*/
package cli
