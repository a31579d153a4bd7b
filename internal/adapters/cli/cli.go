package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"payroll-ledger/internal/app"
	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/core"
	"payroll-ledger/internal/export"
)

// Usage lists the one-shot commands.
const Usage = `Usage:
  app payroll <Month> <Year> [--csv | --xlsx <file>]
  app summary <Year> [--csv | --xlsx <file>]
  app departments
  app employees [<department code>]
  app create-admin <username> <password>

Report commands sign in with PAYROLL_USERNAME and PAYROLL_PASSWORD.`

// Runner executes one-shot CLI commands against the application service.
type Runner struct {
	Svc      app.ApplicationService
	Username string
	Password string
	Out      io.Writer
}

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element is the subcommand name.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", Usage)
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "payroll", "pay":
		return r.payroll(ctx, rest)
	case "summary", "sum":
		return r.summary(ctx, rest)
	case "departments", "dept":
		return r.departments(ctx)
	case "employees", "emp":
		return r.employees(ctx, rest)
	case "create-admin":
		return r.createAdmin(ctx, rest)
	}
	return fmt.Errorf("unknown command: %s\n%s", cmd, Usage)
}

// signIn exchanges the configured credentials for a principal and checks it against op.
func (r *Runner) signIn(ctx context.Context, op auth.Operation) error {
	if r.Username == "" || r.Password == "" {
		return core.Errorf(core.KindUnauthenticated, "PAYROLL_USERNAME and PAYROLL_PASSWORD must be set")
	}
	login, err := r.Svc.Login(ctx, r.Username, r.Password)
	if err != nil {
		return err
	}
	p, err := r.Svc.Authenticate(ctx, "Bearer "+login.Token)
	if err != nil {
		return err
	}
	return r.Svc.Authorize(p, op)
}

// output is the rendering chosen by the trailing flags of a report command.
type output struct {
	csv      bool
	xlsxPath string
}

func parseOutput(flags []string) (output, error) {
	var o output
	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case "--csv":
			o.csv = true
		case "--xlsx":
			if i+1 >= len(flags) {
				return o, core.Errorf(core.KindInvalidInput, "--xlsx needs a file path")
			}
			i++
			o.xlsxPath = flags[i]
		default:
			return o, core.Errorf(core.KindInvalidInput, "unknown flag %q", flags[i])
		}
	}
	if o.csv && o.xlsxPath != "" {
		return o, core.Errorf(core.KindInvalidInput, "--csv and --xlsx are mutually exclusive")
	}
	return o, nil
}

func (r *Runner) payroll(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return core.Errorf(core.KindInvalidInput, "usage: app payroll <Month> <Year> [--csv | --xlsx <file>]")
	}
	out, err := parseOutput(args[2:])
	if err != nil {
		return err
	}
	if err := r.signIn(ctx, auth.OpReportPayroll); err != nil {
		return err
	}

	report, err := r.Svc.PayrollReport(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	switch {
	case out.csv:
		return export.WritePayrollCSV(r.Out, report)
	case out.xlsxPath != "":
		return writeFile(out.xlsxPath, func(w io.Writer) error { return export.WritePayrollXLSX(w, report) })
	}
	printPayroll(r.Out, report)
	return nil
}

func (r *Runner) summary(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return core.Errorf(core.KindInvalidInput, "usage: app summary <Year> [--csv | --xlsx <file>]")
	}
	out, err := parseOutput(args[1:])
	if err != nil {
		return err
	}
	if err := r.signIn(ctx, auth.OpReportDepartmentSummary); err != nil {
		return err
	}

	report, err := r.Svc.DepartmentSummary(ctx, args[0])
	if err != nil {
		return err
	}
	switch {
	case out.csv:
		return export.WriteDepartmentSummaryCSV(r.Out, report)
	case out.xlsxPath != "":
		return writeFile(out.xlsxPath, func(w io.Writer) error { return export.WriteDepartmentSummaryXLSX(w, report) })
	}
	printSummary(r.Out, report)
	return nil
}

func (r *Runner) departments(ctx context.Context) error {
	if err := r.signIn(ctx, auth.OpDepartmentRead); err != nil {
		return err
	}
	res, err := r.Svc.ListDepartments(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "%-8s %-30s %15s\n", "CODE", "NAME", "GROSS SALARY")
	fmt.Fprintln(r.Out, strings.Repeat("-", 55))
	for _, d := range res.Departments {
		fmt.Fprintf(r.Out, "%-8s %-30s %15s\n", d.Code, truncate(d.Name, 30), d.GrossSalary.StringFixed(2))
	}
	return nil
}

func (r *Runner) employees(ctx context.Context, args []string) error {
	if err := r.signIn(ctx, auth.OpEmployeeRead); err != nil {
		return err
	}
	var dept string
	if len(args) > 0 {
		dept = args[0]
	}
	res, err := r.Svc.ListEmployees(ctx, dept)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "%-8s %-24s %-20s %-24s\n", "NUMBER", "NAME", "POSITION", "DEPARTMENT")
	fmt.Fprintln(r.Out, strings.Repeat("-", 79))
	for _, e := range res.Employees {
		fmt.Fprintf(r.Out, "%-8s %-24s %-20s %-24s\n",
			e.Number, truncate(e.FirstName+" "+e.LastName, 24), truncate(e.Position, 20), truncate(e.DepartmentName, 24))
	}
	return nil
}

// createAdmin needs database access only; it is the way to seed the first admin.
func (r *Runner) createAdmin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return core.Errorf(core.KindInvalidInput, "usage: app create-admin <username> <password>")
	}
	created, err := r.Svc.BootstrapAdmin(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if !created {
		return core.Errorf(core.KindDuplicateKey, "user %s already exists", args[0])
	}
	fmt.Fprintf(r.Out, "Admin %s created.\n", args[0])
	return nil
}

func printPayroll(w io.Writer, r *core.PayrollReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 88))
	fmt.Fprintf(w, "  PAYROLL  %s %s\n", r.Month, r.Year)
	fmt.Fprintln(w, strings.Repeat("=", 88))
	fmt.Fprintf(w, "  %-8s %-24s %-20s %-16s %13s\n", "NUMBER", "NAME", "POSITION", "DEPARTMENT", "NET SALARY")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 86))
	for _, l := range r.Lines {
		fmt.Fprintf(w, "  %-8s %-24s %-20s %-16s %13s\n",
			l.EmployeeNumber,
			truncate(l.FirstName+" "+l.LastName, 24),
			truncate(l.Position, 20),
			truncate(l.DepartmentName, 16),
			l.NetSalary.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 88))
	fmt.Fprintf(w, "  %-8s %-63s %13s\n", "TOTAL", fmt.Sprintf("%d rows", r.Count), r.TotalNet.StringFixed(2))
}

func printSummary(w io.Writer, r *core.DepartmentSummaryReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 82))
	fmt.Fprintf(w, "  DEPARTMENT SUMMARY  %s\n", r.Year)
	fmt.Fprintln(w, strings.Repeat("=", 82))
	fmt.Fprintf(w, "  %-8s %-24s %9s %17s %17s\n", "CODE", "DEPARTMENT", "EMPLOYEES", "TOTAL GROSS", "TOTAL NET")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
	for _, l := range r.Lines {
		fmt.Fprintf(w, "  %-8s %-24s %9d %17s %17s\n",
			l.DepartmentCode,
			truncate(l.DepartmentName, 24),
			l.EmployeeCount,
			l.TotalGrossSalary.StringFixed(2),
			l.TotalNetSalary.StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 82))
	fmt.Fprintf(w, "  %-33s %9d %17s %17s\n", "TOTAL", r.TotalEmployees, r.TotalGross.StringFixed(2), r.TotalNet.StringFixed(2))
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
