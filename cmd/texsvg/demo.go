package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wippyai/texsvg"
	"github.com/wippyai/texsvg/runtime"
)

type formula struct {
	label  string
	tex    string
	inline bool
}

type category struct {
	name     string
	formulas []formula
}

var catalogue = []category{
	{"Basic arithmetic", []formula{
		{label: "operators", tex: `a + b - c \times d \div e`},
		{label: "equation", tex: `E = mc^2`},
		{label: "inequalities", tex: `a \neq b, \quad x \leq y, \quad m \geq n`},
		{label: "powers and subscripts", tex: `x^{2n+1}, \quad a_{i,j}`},
		{label: "nested scripts", tex: `x_{i_1}^{j^{k}}`},
		{label: "plus minus", tex: `\pm \alpha \mp \beta`},
		{label: "dot product", tex: `\mathbf{a} \cdot \mathbf{b} = |\mathbf{a}||\mathbf{b}|\cos\theta`},
	}},
	{"Fractions and roots", []formula{
		{label: "simple fraction", tex: `\frac{a}{b}`},
		{label: "nested fraction", tex: `\frac{1}{1+\frac{1}{1+\frac{1}{x}}}`},
		{label: "dfrac", tex: `\dfrac{\partial f}{\partial x}`},
		{label: "tfrac", tex: `\tfrac{1}{2}`},
		{label: "square root", tex: `\sqrt{x^2 + y^2}`},
		{label: "cube root", tex: `\sqrt[3]{27} = 3`},
		{label: "nested roots", tex: `\sqrt{1 + \sqrt{1 + \sqrt{1 + x}}}`},
		{label: "quadratic formula", tex: `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`},
	}},
	{"Greek letters", []formula{
		{label: "lowercase greek", tex: `\alpha \beta \gamma \delta \epsilon \zeta \eta \theta`},
		{label: "more lowercase", tex: `\iota \kappa \lambda \mu \nu \xi \pi \rho`},
		{label: "last lowercase", tex: `\sigma \tau \upsilon \phi \chi \psi \omega`},
		{label: "uppercase greek", tex: `\Gamma \Delta \Theta \Lambda \Xi \Pi \Sigma \Phi \Psi \Omega`},
		{label: "variants", tex: `\varepsilon \vartheta \varpi \varrho \varsigma \varphi`},
	}},
	{"Sums, integrals and limits", []formula{
		{label: "sum", tex: `\sum_{i=1}^{n} i = \frac{n(n+1)}{2}`},
		{label: "product", tex: `\prod_{k=1}^{n} k = n!`},
		{label: "definite integral", tex: `\int_0^1 x^2 \, dx = \frac{1}{3}`},
		{label: "indefinite integral", tex: `\int e^x \, dx = e^x + C`},
		{label: "double integral", tex: `\iint_D f(x,y) \, dA`},
		{label: "triple integral", tex: `\iiint_V \rho \, dV`},
		{label: "contour integral", tex: `\oint_C \mathbf{F} \cdot d\mathbf{r}`},
		{label: "limit", tex: `\lim_{x \to 0} \frac{\sin x}{x} = 1`},
		{label: "limit at infinity", tex: `\lim_{n \to \infty} \left(1 + \frac{1}{n}\right)^n = e`},
		{label: "supremum", tex: `\sup_{x \in S} f(x)`},
		{label: "infimum", tex: `\inf_{x \in S} f(x)`},
	}},
	{"Matrices", []formula{
		{label: "paren matrix", tex: `\begin{pmatrix} a & b \\ c & d \end{pmatrix}`},
		{label: "bracket matrix", tex: `\begin{bmatrix} 1 & 0 & 0 \\ 0 & 1 & 0 \\ 0 & 0 & 1 \end{bmatrix}`},
		{label: "brace matrix", tex: `\begin{Bmatrix} x \\ y \end{Bmatrix}`},
		{label: "determinant", tex: `\begin{vmatrix} a & b \\ c & d \end{vmatrix} = ad - bc`},
		{label: "norm matrix", tex: `\begin{Vmatrix} \mathbf{v} \end{Vmatrix}`},
		{label: "plain matrix", tex: `\begin{matrix} 1 & 2 \\ 3 & 4 \end{matrix}`},
		{label: "augmented matrix", tex: `\left(\begin{array}{cc|c} 1 & 2 & 3 \\ 4 & 5 & 6 \end{array}\right)`},
		{label: "smallmatrix", tex: `A = \bigl(\begin{smallmatrix} a & b \\ c & d \end{smallmatrix}\bigr)`},
	}},
	{"Alignment", []formula{
		{label: "aligned", tex: `\begin{aligned}
            f(x) &= x^2 + 2x + 1 \\
                 &= (x+1)^2
        \end{aligned}`},
		{label: "cases", tex: `|x| = \begin{cases}
            x  & \text{if } x \geq 0 \\
            -x & \text{if } x < 0
        \end{cases}`},
		{label: "gathered", tex: `\begin{gathered}
            a + b = c \\
            d + e = f
        \end{gathered}`},
	}},
	{"Delimiters", []formula{
		{label: "parentheses", tex: `\left( \frac{a}{b} \right)`},
		{label: "brackets", tex: `\left[ \sum_{i=1}^n x_i \right]`},
		{label: "braces", tex: `\left\{ x \in \mathbb{R} \mid x > 0 \right\}`},
		{label: "angle brackets", tex: `\left\langle \psi \mid \phi \right\rangle`},
		{label: "one sided", tex: `\left. \frac{dy}{dx} \right|_{x=0}`},
		{label: "floor and ceiling", tex: `\lfloor x \rfloor, \quad \lceil x \rceil`},
	}},
	{"Text and fonts", []formula{
		{label: "bold", tex: `\mathbf{A} \mathbf{x} = \mathbf{b}`},
		{label: "italic", tex: `f(x) = ax + b`},
		{label: "roman", tex: `\mathrm{pH} = -\log[\mathrm{H}^+]`},
		{label: "calligraphic", tex: `\mathcal{L} \{ f(t) \} = F(s)`},
		{label: "blackboard bold", tex: `\mathbb{R}, \mathbb{C}, \mathbb{Z}, \mathbb{Q}, \mathbb{N}`},
		{label: "fraktur", tex: `\mathfrak{g}, \mathfrak{su}(2)`},
		{label: "typewriter", tex: `\mathtt{code}`},
		{label: "mixed text", tex: `f(x) = 0 \quad \text{for all } x \in S`},
		{label: "cjk text", tex: `\text{面积} = \pi r^2`},
	}},
	{"Accents", []formula{
		{label: "overline", tex: `\overline{AB}`},
		{label: "underline", tex: `\underline{x + y}`},
		{label: "hat", tex: `\hat{a}, \widehat{ABC}`},
		{label: "tilde", tex: `\tilde{x}, \widetilde{XYZ}`},
		{label: "vector", tex: `\vec{v}, \overrightarrow{AB}`},
		{label: "dots", tex: `\dot{x}, \ddot{x}, \dddot{x}`},
		{label: "braces over and under", tex: `\overbrace{a+b+\cdots+z}^{26}, \quad \underbrace{1+1+\cdots+1}_{n}`},
	}},
	{"Sets", []formula{
		{label: "set operations", tex: `A \cup B, \quad A \cap B, \quad A \setminus B`},
		{label: "subsets", tex: `A \subset B, \quad A \subseteq B, \quad A \supset B`},
		{label: "membership", tex: `x \in A, \quad y \notin B`},
		{label: "empty set", tex: `\emptyset, \quad \varnothing`},
		{label: "set builder", tex: `S = \{ x \in \mathbb{Z} \mid x^2 < 10 \}`},
		{label: "direct sum", tex: `V = V_1 \oplus V_2`},
		{label: "cartesian product", tex: `A \times B`},
	}},
	{"Logic", []formula{
		{label: "connectives", tex: `P \land Q, \quad P \lor Q, \quad \lnot P`},
		{label: "implication", tex: `P \implies Q, \quad P \iff Q`},
		{label: "quantifiers", tex: `\forall x \in \mathbb{R}, \quad \exists y > 0`},
		{label: "therefore", tex: `A, \quad B \quad \therefore C`},
	}},
	{"Arrows", []formula{
		{label: "basic arrows", tex: `\leftarrow \rightarrow \leftrightarrow`},
		{label: "long arrows", tex: `\longleftarrow \longrightarrow \longleftrightarrow`},
		{label: "double arrows", tex: `\Leftarrow \Rightarrow \Leftrightarrow`},
		{label: "maps to", tex: `f \colon X \to Y, \quad x \mapsto f(x)`},
		{label: "hook arrow", tex: `A \hookrightarrow B`},
		{label: "vertical arrows", tex: `\uparrow \downarrow \updownarrow`},
	}},
	{"Physics", []formula{
		{label: "schroedinger", tex: `i\hbar \frac{\partial}{\partial t} \Psi = \hat{H} \Psi`},
		{label: "gauss law", tex: `\nabla \cdot \mathbf{E} = \frac{\rho}{\varepsilon_0}`},
		{label: "ampere law", tex: `\nabla \times \mathbf{B} = \mu_0 \mathbf{J} + \mu_0 \varepsilon_0 \frac{\partial \mathbf{E}}{\partial t}`},
		{label: "dirac", tex: `(i \gamma^\mu \partial_\mu - m) \psi = 0`},
		{label: "einstein field", tex: `R_{\mu\nu} - \tfrac{1}{2} R g_{\mu\nu} + \Lambda g_{\mu\nu} = \frac{8\pi G}{c^4} T_{\mu\nu}`},
		{label: "lorentz force", tex: `\mathbf{F} = q(\mathbf{E} + \mathbf{v} \times \mathbf{B})`},
		{label: "first law", tex: `dU = \delta Q - \delta W`},
		{label: "boltzmann entropy", tex: `S = k_B \ln \Omega`},
	}},
	{"Probability", []formula{
		{label: "expectation", tex: `\mathbb{E}[X] = \sum_{i} x_i p_i`},
		{label: "variance", tex: `\mathrm{Var}(X) = \mathbb{E}[X^2] - (\mathbb{E}[X])^2`},
		{label: "normal density", tex: `f(x) = \frac{1}{\sigma\sqrt{2\pi}} e^{-\frac{(x-\mu)^2}{2\sigma^2}}`},
		{label: "bayes", tex: `P(A|B) = \frac{P(B|A) P(A)}{P(B)}`},
		{label: "binomial", tex: `P(X=k) = \binom{n}{k} p^k (1-p)^{n-k}`},
		{label: "chi squared", tex: `\chi^2 = \sum_{i=1}^{k} \frac{(O_i - E_i)^2}{E_i}`},
		{label: "covariance", tex: `\mathrm{Cov}(X,Y) = \mathbb{E}[(X - \mu_X)(Y - \mu_Y)]`},
	}},
	{"Linear algebra", []formula{
		{label: "characteristic equation", tex: `\det(A - \lambda I) = 0`},
		{label: "trace", tex: `\mathrm{tr}(A) = \sum_{i=1}^n a_{ii}`},
		{label: "transpose", tex: `(AB)^T = B^T A^T`},
		{label: "inverse", tex: `A^{-1} A = A A^{-1} = I`},
		{label: "kronecker product", tex: `A \otimes B`},
		{label: "inner product", tex: `\langle u, v \rangle = \sum_i u_i \overline{v_i}`},
		{label: "p norm", tex: `\| \mathbf{x} \|_p = \left( \sum_i |x_i|^p \right)^{1/p}`},
		{label: "svd", tex: `A = U \Sigma V^*`},
	}},
	{"Calculus", []formula{
		{label: "taylor series", tex: `e^x = \sum_{n=0}^{\infty} \frac{x^n}{n!}`},
		{label: "fourier transform", tex: `\hat{f}(\xi) = \int_{-\infty}^{\infty} f(x) e^{-2\pi i x \xi} \, dx`},
		{label: "laplace transform", tex: `\mathcal{L}\{f(t)\} = \int_0^\infty f(t) e^{-st} \, dt`},
		{label: "wave equation", tex: `\frac{\partial^2 u}{\partial t^2} = c^2 \nabla^2 u`},
		{label: "green theorem", tex: `\oint_C (P\,dx + Q\,dy) = \iint_D \left(\frac{\partial Q}{\partial x} - \frac{\partial P}{\partial y}\right) dA`},
		{label: "divergence theorem", tex: `\iiint_V (\nabla \cdot \mathbf{F}) \, dV = \oiint_S \mathbf{F} \cdot d\mathbf{S}`},
		{label: "leibniz rule", tex: `\frac{d}{dx}\int_{a(x)}^{b(x)} f(x,t)\,dt = f(x,b) b'(x) - f(x,a) a'(x) + \int_a^b \frac{\partial f}{\partial x} dt`},
		{label: "euler formula", tex: `e^{i\theta} = \cos\theta + i\sin\theta`},
	}},
	{"Chemistry", []formula{
		{label: "reaction", tex: `\ce{2H2 + O2 -> 2H2O}`},
		{label: "equilibrium", tex: `\ce{N2 + 3H2 <=> 2NH3}`},
		{label: "precipitate", tex: `\ce{Ag+ + Cl- -> AgCl v}`},
		{label: "redox", tex: `\ce{Fe^{2+} -> Fe^{3+} + e-}`},
		{label: "ethanol", tex: `\ce{CH3CH2OH}`},
	}},
	{"Combinatorics", []formula{
		{label: "binomial coefficient", tex: `\binom{n}{k} = \frac{n!}{k!(n-k)!}`},
		{label: "multinomial", tex: `\binom{n}{k_1, k_2, \ldots, k_m}`},
		{label: "stirling", tex: `\left\{ {n \atop k} \right\}`},
		{label: "catalan", tex: `C_n = \frac{1}{n+1}\binom{2n}{n}`},
		{label: "vandermonde", tex: `\sum_{k=0}^{r} \binom{m}{k}\binom{n}{r-k} = \binom{m+n}{r}`},
		{label: "inclusion exclusion", tex: `|A_1 \cup \cdots \cup A_n| = \sum_{i} |A_i| - \sum_{i<j} |A_i \cap A_j| + \cdots`},
	}},
	{"Number theory", []formula{
		{label: "divides", tex: `a \mid b`},
		{label: "congruence", tex: `a \equiv b \pmod{m}`},
		{label: "totient", tex: `\phi(n) = n \prod_{p \mid n} \left(1 - \frac{1}{p}\right)`},
		{label: "zeta", tex: `\zeta(s) = \sum_{n=1}^{\infty} \frac{1}{n^s} = \prod_{p \text{ prime}} \frac{1}{1-p^{-s}}`},
		{label: "legendre symbol", tex: `\left(\frac{a}{p}\right)`},
		{label: "continued fraction", tex: `x = a_0 + \cfrac{1}{a_1 + \cfrac{1}{a_2 + \cfrac{1}{a_3 + \cdots}}}`},
	}},
	{"Algebra and topology", []formula{
		{label: "homomorphism", tex: `f: G \to H, \quad f(ab) = f(a)f(b)`},
		{label: "exact sequence", tex: `0 \to A \xrightarrow{f} B \xrightarrow{g} C \to 0`},
		{label: "tensor product", tex: `V \otimes W`},
		{label: "quotient group", tex: `G / N`},
		{label: "isomorphism", tex: `G \cong \mathbb{Z}/n\mathbb{Z}`},
		{label: "fundamental group", tex: `\pi_1(S^1) \cong \mathbb{Z}`},
	}},
	{"Color", []formula{
		{label: "colored terms", tex: `{\color{red} x^2} + {\color{blue} y^2} = {\color{green} z^2}`},
		{label: "colorbox", tex: `\colorbox{yellow}{$E = mc^2$}`},
		{label: "colored fraction", tex: `\frac{{\color{red}a}}{{\color{blue}b}}`},
	}},
	{"Cancel", []formula{
		{label: "cancel styles", tex: `\cancel{x} + \bcancel{y} + \xcancel{z}`},
		{label: "cancellation", tex: `\frac{\cancel{a} \cdot b}{\cancel{a} \cdot c} = \frac{b}{c}`},
	}},
	{"Large formulas", []formula{
		{label: "maxwell equations", tex: `\begin{aligned}
            \nabla \cdot \mathbf{E} &= \frac{\rho}{\varepsilon_0} \\
            \nabla \cdot \mathbf{B} &= 0 \\
            \nabla \times \mathbf{E} &= -\frac{\partial \mathbf{B}}{\partial t} \\
            \nabla \times \mathbf{B} &= \mu_0 \mathbf{J} + \mu_0 \varepsilon_0 \frac{\partial \mathbf{E}}{\partial t}
        \end{aligned}`},
		{label: "euler lagrange", tex: `\delta \int_{t_1}^{t_2} L(q, \dot{q}, t) \, dt = 0 \implies \frac{d}{dt}\frac{\partial L}{\partial \dot{q}} - \frac{\partial L}{\partial q} = 0`},
		{label: "path integral", tex: `K(x_b, t_b; x_a, t_a) = \int \mathcal{D}[x(t)] \, e^{\frac{i}{\hbar} S[x(t)]}`},
		{label: "stokes theorem", tex: `\int_{\partial \Omega} \omega = \int_\Omega d\omega`},
	}},
	{"Inline mode", []formula{
		{label: "inline sum", tex: `a + b`, inline: true},
		{label: "inline fraction", tex: `\frac{1}{2}`, inline: true},
		{label: "inline sigma", tex: `\sum x_i`, inline: true},
		{label: "inline integral", tex: `\int f`, inline: true},
	}},
	{"Edge cases", []formula{
		{label: "empty", tex: ``},
		{label: "single character", tex: `x`},
		{label: "digits", tex: `12345`},
		{label: "control space", tex: `\ `},
		{label: "spacing", tex: `a \quad b \qquad c`},
		{label: "deep roots", tex: `\sqrt{\sqrt{\sqrt{\sqrt{\sqrt{x}}}}}`},
		{label: "deep subscripts", tex: `x_{a_{b_{c_{d_{e}}}}}`},
	}},
}

// demoStats summarizes a catalogue run.
type demoStats struct {
	total   int
	failed  int
	elapsed time.Duration
}

// demoFileName maps a formula label to its output file name. Names are
// lowercased so they stay distinct on case-insensitive filesystems.
func demoFileName(label string) string {
	r := strings.NewReplacer(" ", "_", "/", "_")
	return "demo_" + r.Replace(strings.ToLower(label)) + ".svg"
}

// runDemo renders the whole catalogue through r, printing one timed line per
// formula to w. When dir is not empty each result is saved there.
func runDemo(r texsvg.Renderer, dir string, w io.Writer) (demoStats, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return demoStats{}, fmt.Errorf("create demo dir: %w", err)
		}
	}

	var st demoStats
	start := time.Now()
	for _, cat := range catalogue {
		fmt.Fprintf(w, "\n== %s ==\n", cat.name)
		for _, f := range cat.formulas {
			st.total++
			mode := runtime.Display
			if f.inline {
				mode = runtime.Inline
			}

			t0 := time.Now()
			out, err := r.Render(f.tex, mode)
			ms := float64(time.Since(t0).Microseconds()) / 1000

			if err != nil || !strings.Contains(out, "<svg") {
				st.failed++
				fmt.Fprintf(w, "  FAIL [%7.1fms] %s\n", ms, f.label)
				if err != nil {
					fmt.Fprintf(w, "    %v\n", err)
				}
				continue
			}
			fmt.Fprintf(w, "  ok   [%7.1fms] %s\n", ms, f.label)

			if dir != "" {
				path := filepath.Join(dir, demoFileName(f.label))
				if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
					return st, fmt.Errorf("write %s: %w", path, err)
				}
			}
		}
	}
	st.elapsed = time.Since(start)
	return st, nil
}
