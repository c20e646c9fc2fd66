package server

// loginPage mirrors the element ids and data-test hooks of the demo shop's
// login form.
const loginPage = `<!DOCTYPE html>
<html>
<head>
    <title>Swag Labs</title>
    <style>
        body { font-family: sans-serif; background: #fff; margin: 0; }
        .login_logo { text-align: center; font-size: 24px; padding: 40px 0; }
        .login-box { max-width: 400px; margin: 0 auto; }
        .form_input { display: block; width: 100%; padding: 10px; margin-bottom: 20px; box-sizing: border-box; }
        .submit-button { width: 100%; padding: 12px; background: #3ddc91; border: none; color: #fff; font-size: 16px; cursor: pointer; }
        .error-message-container.error { background: #e2231a; color: #fff; padding: 10px; margin-bottom: 20px; }
        h3 { margin: 0; font-size: 14px; }
    </style>
</head>
<body>
    <div class="login_logo">Swag Labs</div>
    <div class="login-box">
        <form method="POST" action="/login">
            <input class="form_input" placeholder="Username" type="text" data-test="username" id="user-name" name="user-name" value="{{.Username}}" autocorrect="off" autocapitalize="none">
            <input class="form_input" placeholder="Password" type="password" data-test="password" id="password" name="password" autocorrect="off" autocapitalize="none">
            {{if .Error}}<div class="error-message-container error"><h3 data-test="error">{{.Error}}</h3></div>{{end}}
            <input type="submit" class="submit-button btn_action" data-test="login-button" id="login-button" name="login-button" value="Login">
        </form>
    </div>
</body>
</html>`

const inventoryPage = `<!DOCTYPE html>
<html>
<head>
    <title>Swag Labs</title>
    <style>
        body { font-family: sans-serif; margin: 0; }
        .primary_header { display: flex; align-items: center; padding: 10px; border-bottom: 1px solid #ddd; }
        #react-burger-menu-btn { width: 36px; height: 36px; cursor: pointer; }
        .bm-menu-wrap { position: fixed; top: 0; left: 0; width: 300px; height: 100%; background: #f3f3f3; }
        .bm-menu-wrap[hidden] { display: none; }
        .bm-item { display: block; padding: 12px; color: #18583a; }
        .title { font-size: 18px; font-weight: 500; padding: 10px; }
    </style>
</head>
<body>
    <div class="primary_header">
        <button id="react-burger-menu-btn" type="button">Open Menu</button>
        <div class="app_logo">Swag Labs</div>
    </div>
    <div class="bm-menu-wrap" id="menu" hidden>
        <nav class="bm-item-list">
            <a id="inventory_sidebar_link" class="bm-item menu-item" href="/inventory.html">All Items</a>
            <a id="about_sidebar_link" class="bm-item menu-item" href="{{.AboutURL}}">About</a>
            <a id="logout_sidebar_link" class="bm-item menu-item" href="/logout">Logout</a>
        </nav>
    </div>
    <div class="header_secondary_container">
        <span class="title" data-test="title">Products</span>
    </div>
    <div class="inventory_list">
        <div class="inventory_item_name">Sauce Labs Backpack</div>
        <div class="inventory_item_name">Sauce Labs Bike Light</div>
    </div>
    <script>
        document.getElementById("react-burger-menu-btn").addEventListener("click", function () {
            document.getElementById("menu").hidden = false;
        });
    </script>
</body>
</html>`

const aboutPage = `<!DOCTYPE html>
<html>
<head><title>Sauce Labs</title></head>
<body><h1>About Sauce Labs</h1></body>
</html>`
